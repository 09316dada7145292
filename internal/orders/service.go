package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/divya8341883853/clothstore-backend/pkg/errors"
	"github.com/divya8341883853/clothstore-backend/pkg/pagination"
)

// Service exposes order history reads. Orders are written exclusively by
// the checkout pipeline.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, page pagination.Params) (*ListResult, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderView, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, page pagination.Params) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, errors.New(errors.CodeUnauthorized, "user is required")
	}

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(page.Limit)
	rows, err := s.repo.ListByUser(ctx, userID, cursor, limit+1)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing orders")
	}

	result := &ListResult{Orders: make([]OrderView, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	for i := range rows {
		result.Orders = append(result.Orders, ToOrderView(&rows[i]))
	}
	return result, nil
}

// Get returns a single order. Orders belonging to another user read as
// not found rather than forbidden.
func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderView, error) {
	if userID == uuid.Nil {
		return nil, errors.New(errors.CodeUnauthorized, "user is required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "fetching order")
	}
	if order == nil || order.UserID != userID {
		return nil, errors.New(errors.CodeNotFound, "order not found")
	}

	view := ToOrderView(order)
	return &view, nil
}
