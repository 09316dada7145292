package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/divya8341883853/clothstore-backend/pkg/db/models"
	"github.com/divya8341883853/clothstore-backend/pkg/enums"
)

type ItemView struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	Name            string          `json:"name"`
	ImageURL        string          `json:"image_url"`
	Size            string          `json:"size"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

type OrderView struct {
	ID         uuid.UUID         `json:"id"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	OrderDate  time.Time         `json:"order_date"`
	Status     enums.OrderStatus `json:"status"`
	Items      []ItemView        `json:"items"`
}

type ListResult struct {
	Orders     []OrderView `json:"orders"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

func toItemView(item *models.OrderItem) ItemView {
	view := ItemView{
		ID:              item.ID,
		ProductID:       item.ProductID,
		Size:            item.Size,
		Quantity:        item.Quantity,
		PriceAtPurchase: item.PriceAtPurchase,
	}
	if item.Product != nil {
		view.Name = item.Product.Name
		view.ImageURL = item.Product.ImageURL
	}
	return view
}

func ToOrderView(order *models.Order) OrderView {
	view := OrderView{
		ID:         order.ID,
		TotalPrice: order.TotalPrice,
		OrderDate:  order.OrderDate,
		Status:     order.Status,
		Items:      make([]ItemView, 0, len(order.Items)),
	}
	for i := range order.Items {
		view.Items = append(view.Items, toItemView(&order.Items[i]))
	}
	return view
}
