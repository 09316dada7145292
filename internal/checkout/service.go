// Package checkout turns a cart into an order. The whole placement runs in
// one database transaction: header, frozen line items, cart clearing, and
// the confirmation event either all commit or all roll back.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/divya8341883853/clothstore-backend/internal/cart"
	"github.com/divya8341883853/clothstore-backend/internal/orders"
	"github.com/divya8341883853/clothstore-backend/internal/pricing"
	"github.com/divya8341883853/clothstore-backend/internal/users"
	"github.com/divya8341883853/clothstore-backend/pkg/db"
	"github.com/divya8341883853/clothstore-backend/pkg/db/models"
	"github.com/divya8341883853/clothstore-backend/pkg/enums"
	"github.com/divya8341883853/clothstore-backend/pkg/errors"
	"github.com/divya8341883853/clothstore-backend/pkg/logger"
	"github.com/divya8341883853/clothstore-backend/pkg/metrics"
	"github.com/divya8341883853/clothstore-backend/pkg/outbox"
	"github.com/divya8341883853/clothstore-backend/pkg/outbox/payloads"
	"github.com/divya8341883853/clothstore-backend/pkg/types"
)

// Placement step names surfaced in partial failure details.
const (
	stepOrderItems = "order_items"
	stepCartClear  = "cart_clear"
)

// Emitter queues a domain event inside the placement transaction.
type Emitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service places orders.
type Service interface {
	PlaceOrder(ctx context.Context, owner types.Identity) (*orders.OrderView, error)
}

type service struct {
	client    *db.Client
	cartRepo  cart.Repository
	orderRepo orders.Repository
	userRepo  users.Repository
	emitter   Emitter
	publisher cart.Publisher
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(
	client *db.Client,
	cartRepo cart.Repository,
	orderRepo orders.Repository,
	userRepo users.Repository,
	emitter Emitter,
	publisher cart.Publisher,
	logg *logger.Logger,
) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{
		client:    client,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		emitter:   emitter,
		publisher: publisher,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// PlaceOrder converts the signed-in user's cart into a confirmed order.
// Prices are frozen from the catalog at this instant; the cart is emptied
// in the same transaction. Guests cannot place orders.
func (s *service) PlaceOrder(ctx context.Context, owner types.Identity) (*orders.OrderView, error) {
	userID, err := owner.UserID()
	if err != nil {
		return nil, errors.New(errors.CodeUnauthorized, "sign in to place an order")
	}

	var placed *models.Order
	txErr := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		userRepo := s.userRepo.WithTx(tx)

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return errors.Wrap(errors.CodeInternal, err, "loading user")
		}
		if user == nil {
			return errors.New(errors.CodeUnauthorized, "sign in to place an order")
		}

		lines, err := cartRepo.ListByOwner(ctx, owner)
		if err != nil {
			return errors.Wrap(errors.CodeInternal, err, "loading cart")
		}
		if len(lines) == 0 {
			return errors.New(errors.CodeValidation, "cart is empty")
		}

		snapshot, err := pricing.Build(lines)
		if err != nil {
			return errors.Wrap(errors.CodeNotFound, err, "pricing cart")
		}

		order := &models.Order{
			ID:         uuid.New(),
			UserID:     userID,
			TotalPrice: snapshot.Total(),
			OrderDate:  s.now(),
			Status:     enums.OrderStatusConfirmed,
		}
		if err := orderRepo.CreateOrder(ctx, order); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "creating order")
		}

		items := make([]models.OrderItem, 0, len(snapshot.Lines))
		for _, line := range snapshot.Lines {
			items = append(items, models.OrderItem{
				ID:              uuid.New(),
				OrderID:         order.ID,
				ProductID:       line.ProductID,
				Size:            line.Size,
				Quantity:        line.Quantity,
				PriceAtPurchase: line.UnitPrice,
			})
		}
		if err := orderRepo.CreateItems(ctx, items); err != nil {
			return s.partialFailure(stepOrderItems, order.ID, err)
		}

		if err := cartRepo.DeleteByOwner(ctx, owner); err != nil {
			return s.partialFailure(stepCartClear, order.ID, err)
		}

		// Notification delivery is best-effort: a failed enqueue must not
		// void the purchase.
		s.emit(ctx, tx, order, user.Email, snapshot)

		order.Items = items
		placed = order
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	metrics.OrdersPlaced.Inc()
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": placed.ID.String(),
			"total":    placed.TotalPrice.String(),
		})
		s.logg.Info(logCtx, "order placed")
	}
	s.signalCartCleared(ctx, owner)

	view := orders.ToOrderView(placed)
	return &view, nil
}

// partialFailure classifies errors after the order header exists. The
// transaction rolls back, so nothing half-written survives; the details
// record which step broke for diagnostics.
func (s *service) partialFailure(step string, orderID uuid.UUID, err error) error {
	return errors.Wrap(errors.CodePartialFailure, err, "order placement failed mid-pipeline").
		WithDetails(map[string]any{
			"step":     step,
			"order_id": orderID.String(),
		})
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, order *models.Order, email string, snapshot *pricing.Snapshot) {
	if s.emitter == nil {
		return
	}

	payload := payloads.OrderConfirmed{
		OrderID:        order.ID,
		RecipientEmail: email,
		Total:          order.TotalPrice,
		OrderDate:      order.OrderDate,
	}
	for _, line := range snapshot.Lines {
		payload.Items = append(payload.Items, payloads.OrderConfirmedLine{
			Name:     line.ProductName,
			Size:     line.Size,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		})
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventOrderConfirmed,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Data:          payload,
		Version:       payloads.OrderConfirmedVersion,
		OccurredAt:    order.OrderDate,
	}
	if err := s.emitter.Emit(ctx, tx, event); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "order_id", order.ID.String()), "order confirmation event enqueue failed")
	}
}

func (s *service) signalCartCleared(ctx context.Context, owner types.Identity) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishCartChanged(ctx, owner); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "cart change signal publish failed")
	}
}
