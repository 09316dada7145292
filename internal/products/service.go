package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/divya8341883853/clothstore-backend/pkg/errors"
	"github.com/divya8341883853/clothstore-backend/pkg/pagination"
)

// Service exposes catalog reads for the storefront.
type Service interface {
	List(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductView, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error) {
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, errors.New(errors.CodeValidation, "unknown category").
			WithDetails(map[string]any{"category": filter.Category})
	}

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(page.Limit)
	rows, err := s.repo.List(ctx, filter, cursor, limit+1)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing products")
	}

	result := &ListResult{Products: make([]ProductView, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	for i := range rows {
		result.Products = append(result.Products, toProductView(&rows[i]))
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "fetching product")
	}
	if product == nil {
		return nil, errors.New(errors.CodeNotFound, "product not found")
	}
	view := toProductView(product)
	return &view, nil
}
