// Package pricing freezes cart prices at order placement. A snapshot copies
// the catalog price of every line once; later catalog changes never reach a
// placed order.
package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/divya8341883853/clothstore-backend/pkg/db/models"
)

// Line is one frozen cart line.
type Line struct {
	ProductID   uuid.UUID
	ProductName string
	Size        string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Snapshot is the priced view of a cart at a single instant.
type Snapshot struct {
	Lines []Line
}

// Build freezes the given cart lines. Every line must carry its preloaded
// product; a line whose product is missing fails the whole snapshot.
func Build(items []models.CartItem) (*Snapshot, error) {
	snapshot := &Snapshot{Lines: make([]Line, 0, len(items))}
	for i := range items {
		item := &items[i]
		if item.Product == nil {
			return nil, fmt.Errorf("cart line %s references missing product %s", item.ID, item.ProductID)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("cart line %s has invalid quantity %d", item.ID, item.Quantity)
		}
		snapshot.Lines = append(snapshot.Lines, Line{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Size:        item.Size,
			Quantity:    item.Quantity,
			UnitPrice:   item.Product.Price,
		})
	}
	return snapshot, nil
}

// Total sums unit price times quantity across all lines.
func (s *Snapshot) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
