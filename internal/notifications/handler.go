// Package notifications delivers transactional email for queued domain
// events. Delivery is asynchronous: the checkout pipeline only enqueues,
// and the outbox dispatcher retries failed sends up to the attempt ceiling.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/divya8341883853/clothstore-backend/pkg/db/models"
	"github.com/divya8341883853/clothstore-backend/pkg/enums"
	"github.com/divya8341883853/clothstore-backend/pkg/logger"
	"github.com/divya8341883853/clothstore-backend/pkg/mailer"
	"github.com/divya8341883853/clothstore-backend/pkg/outbox"
	"github.com/divya8341883853/clothstore-backend/pkg/outbox/payloads"
)

// Handler consumes outbox events and sends the matching email.
type Handler struct {
	sender mailer.Sender
	logg   *logger.Logger
}

func NewHandler(sender mailer.Sender, logg *logger.Logger) (*Handler, error) {
	if sender == nil {
		return nil, fmt.Errorf("mail sender is required")
	}
	return &Handler{sender: sender, logg: logg}, nil
}

// Handle routes one event. Unknown event types are acknowledged without
// action so old rows never wedge the dispatcher.
func (h *Handler) Handle(ctx context.Context, event models.OutboxEvent) error {
	switch event.EventType {
	case enums.EventOrderConfirmed:
		return h.handleOrderConfirmed(ctx, event)
	default:
		if h.logg != nil {
			h.logg.Warn(h.logg.WithField(ctx, "event_type", event.EventType), "skipping unknown outbox event type")
		}
		return nil
	}
}

func (h *Handler) handleOrderConfirmed(ctx context.Context, event models.OutboxEvent) error {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return fmt.Errorf("decode event envelope: %w", err)
	}

	var payload payloads.OrderConfirmed
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return fmt.Errorf("decode order confirmation payload: %w", err)
	}
	if payload.RecipientEmail == "" {
		return fmt.Errorf("order confirmation %s has no recipient", payload.OrderID)
	}

	subject, htmlBody, textBody, err := RenderOrderConfirmation(payload)
	if err != nil {
		return err
	}

	if err := h.sender.Send(ctx, payload.RecipientEmail, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send order confirmation: %w", err)
	}

	if h.logg != nil {
		logCtx := h.logg.WithFields(ctx, map[string]any{
			"order_id":  payload.OrderID.String(),
			"recipient": payload.RecipientEmail,
		})
		h.logg.Info(logCtx, "order confirmation sent")
	}
	return nil
}
