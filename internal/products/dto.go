package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/divya8341883853/clothstore-backend/pkg/db/models"
	"github.com/divya8341883853/clothstore-backend/pkg/enums"
)

// ListFilter narrows a catalog listing.
type ListFilter struct {
	Category enums.ProductCategory
	Query    string
}

type ProductView struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Price       decimal.Decimal       `json:"price"`
	ImageURL    string                `json:"image_url"`
	Category    enums.ProductCategory `json:"category"`
	Sizes       []string              `json:"sizes"`
	CreatedAt   time.Time             `json:"created_at"`
}

type ListResult struct {
	Products   []ProductView `json:"products"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func toProductView(p *models.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Sizes:       append([]string(nil), p.Sizes...),
		CreatedAt:   p.CreatedAt,
	}
}
