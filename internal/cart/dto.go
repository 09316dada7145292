package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/divya8341883853/clothstore-backend/pkg/db/models"
)

type AddInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Size      string    `json:"size" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1"`
}

type SetQuantityInput struct {
	Quantity int `json:"quantity" validate:"required"`
}

type LineView struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url"`
	Price     decimal.Decimal `json:"price"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartView struct {
	Items []LineView      `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

func toLineView(item *models.CartItem) LineView {
	view := LineView{
		ID:        item.ID,
		ProductID: item.ProductID,
		Size:      item.Size,
		Quantity:  item.Quantity,
	}
	if item.Product != nil {
		view.Name = item.Product.Name
		view.ImageURL = item.Product.ImageURL
		view.Price = item.Product.Price
		view.LineTotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	return view
}

func toCartView(items []models.CartItem) *CartView {
	view := &CartView{
		Items: make([]LineView, 0, len(items)),
		Count: len(items),
		Total: decimal.Zero,
	}
	for i := range items {
		line := toLineView(&items[i])
		view.Items = append(view.Items, line)
		view.Total = view.Total.Add(line.LineTotal)
	}
	return view
}
