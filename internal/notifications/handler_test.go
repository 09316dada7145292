package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/divya8341883853/clothstore-backend/pkg/db/models"
	"github.com/divya8341883853/clothstore-backend/pkg/enums"
	"github.com/divya8341883853/clothstore-backend/pkg/outbox"
	"github.com/divya8341883853/clothstore-backend/pkg/outbox/payloads"
)

type stubSender struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	html    string
	text    string
}

func (s *stubSender) Send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to: toEmail, subject: subject, html: htmlBody, text: textBody})
	return nil
}

func confirmedEvent(t *testing.T, payload payloads.OrderConfirmed) models.OutboxEvent {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	envelope, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    payloads.OrderConfirmedVersion,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       data,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderConfirmed,
		AggregateType: enums.AggregateOrder,
		AggregateID:   payload.OrderID,
		Payload:       envelope,
	}
}

func samplePayload() payloads.OrderConfirmed {
	return payloads.OrderConfirmed{
		OrderID:        uuid.New(),
		RecipientEmail: "shopper@example.com",
		Items: []payloads.OrderConfirmedLine{
			{Name: "plain tee", Size: "M", Quantity: 2, Price: decimal.NewFromFloat(25.00)},
		},
		Total:     decimal.NewFromFloat(50.00),
		OrderDate: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestHandle_SendsConfirmationEmail(t *testing.T) {
	sender := &stubSender{}
	handler, err := NewHandler(sender, nil)
	if err != nil {
		t.Fatalf("NewHandler returned error: %v", err)
	}

	payload := samplePayload()
	if err := handler.Handle(context.Background(), confirmedEvent(t, payload)); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	mail := sender.sent[0]
	if mail.to != "shopper@example.com" {
		t.Fatalf("recipient = %q", mail.to)
	}
	if !strings.Contains(mail.subject, payload.OrderID.String()) {
		t.Fatalf("subject %q missing order id", mail.subject)
	}
	if !strings.Contains(mail.html, "plain tee") || !strings.Contains(mail.text, "plain tee") {
		t.Fatal("bodies missing line item name")
	}
	if !strings.Contains(mail.text, "50") {
		t.Fatal("text body missing total")
	}
}

func TestHandle_SendFailurePropagatesForRetry(t *testing.T) {
	sender := &stubSender{err: fmt.Errorf("smtp unavailable")}
	handler, _ := NewHandler(sender, nil)

	err := handler.Handle(context.Background(), confirmedEvent(t, samplePayload()))
	if err == nil {
		t.Fatal("expected error so the dispatcher records a failed attempt")
	}
}

func TestHandle_SkipsUnknownEventTypes(t *testing.T) {
	sender := &stubSender{}
	handler, _ := NewHandler(sender, nil)

	event := models.OutboxEvent{ID: uuid.New(), EventType: "something.else"}
	if err := handler.Handle(context.Background(), event); err != nil {
		t.Fatalf("unknown events should be acknowledged, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("no email should be sent for unknown events")
	}
}

func TestHandle_MissingRecipientFails(t *testing.T) {
	sender := &stubSender{}
	handler, _ := NewHandler(sender, nil)

	payload := samplePayload()
	payload.RecipientEmail = ""
	if err := handler.Handle(context.Background(), confirmedEvent(t, payload)); err == nil {
		t.Fatal("expected error for missing recipient")
	}
}
