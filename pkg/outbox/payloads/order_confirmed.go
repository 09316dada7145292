package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderConfirmedVersion is the current payload schema version.
const OrderConfirmedVersion = 1

// OrderConfirmedLine is one frozen line item carried in the notification.
type OrderConfirmedLine struct {
	Name     string          `json:"name"`
	Size     string          `json:"size"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderConfirmed is the order-confirmation notification payload.
type OrderConfirmed struct {
	OrderID        uuid.UUID            `json:"order_id"`
	RecipientEmail string               `json:"recipient_email"`
	Items          []OrderConfirmedLine `json:"items"`
	Total          decimal.Decimal      `json:"total"`
	OrderDate      time.Time            `json:"order_date"`
}
