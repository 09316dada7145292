package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/divya8341883853/clothstore-backend/internal/products"
	"github.com/divya8341883853/clothstore-backend/pkg/db"
	"github.com/divya8341883853/clothstore-backend/pkg/db/models"
	"github.com/divya8341883853/clothstore-backend/pkg/errors"
	"github.com/divya8341883853/clothstore-backend/pkg/logger"
	"github.com/divya8341883853/clothstore-backend/pkg/metrics"
	"github.com/divya8341883853/clothstore-backend/pkg/types"
)

// Service owns all cart line reads and writes for both guest and
// authenticated owners.
type Service interface {
	List(ctx context.Context, owner types.Identity) (*CartView, error)
	Add(ctx context.Context, owner types.Identity, input AddInput) (*CartView, error)
	SetQuantity(ctx context.Context, owner types.Identity, lineID uuid.UUID, quantity int) (*CartView, error)
	Remove(ctx context.Context, owner types.Identity, lineID uuid.UUID) (*CartView, error)
	Clear(ctx context.Context, owner types.Identity) error
	Count(ctx context.Context, owner types.Identity) (int, error)
	Adopt(ctx context.Context, userID uuid.UUID, sessionToken string) error
}

type service struct {
	client    *db.Client
	repo      Repository
	catalog   products.Repository
	publisher Publisher
	logg      *logger.Logger
}

func NewService(client *db.Client, repo Repository, catalog products.Repository, publisher Publisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	return &service{
		client:    client,
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		logg:      logg,
	}, nil
}

func (s *service) List(ctx context.Context, owner types.Identity) (*CartView, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "invalid cart owner")
	}
	items, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing cart")
	}
	return toCartView(items), nil
}

func (s *service) Add(ctx context.Context, owner types.Identity, input AddInput) (*CartView, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "invalid cart owner")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, errors.New(errors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.catalog.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "fetching product")
	}
	if product == nil {
		return nil, errors.New(errors.CodeNotFound, "product not found")
	}
	if !product.HasSize(input.Size) {
		return nil, errors.New(errors.CodeValidation, "size not offered for product").
			WithDetails(map[string]any{"size": input.Size, "sizes": product.Sizes})
	}

	item := &models.CartItem{
		ID:        uuid.New(),
		OwnerKind: owner.Kind,
		OwnerRef:  owner.Ref,
		ProductID: product.ID,
		Size:      input.Size,
		Quantity:  quantity,
	}
	if err := s.repo.UpsertMerge(ctx, item); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "adding cart line")
	}

	metrics.CartMutations.WithLabelValues("add").Inc()
	s.signal(ctx, owner)
	return s.List(ctx, owner)
}

func (s *service) SetQuantity(ctx context.Context, owner types.Identity, lineID uuid.UUID, quantity int) (*CartView, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "invalid cart owner")
	}

	line, err := s.ownedLine(ctx, owner, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, errors.New(errors.CodeNotFound, "cart line not found")
	}

	// Quantity floors at 1: decrementing past it leaves the line alone
	// rather than deleting it. Removal is an explicit operation.
	if quantity < 1 {
		return s.List(ctx, owner)
	}
	if quantity == line.Quantity {
		return s.List(ctx, owner)
	}

	if err := s.repo.UpdateQuantity(ctx, lineID, quantity); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "updating cart line")
	}

	metrics.CartMutations.WithLabelValues("set_quantity").Inc()
	s.signal(ctx, owner)
	return s.List(ctx, owner)
}

func (s *service) Remove(ctx context.Context, owner types.Identity, lineID uuid.UUID) (*CartView, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "invalid cart owner")
	}

	line, err := s.ownedLine(ctx, owner, lineID)
	if err != nil {
		return nil, err
	}
	// Removing a line that is already gone succeeds.
	if line == nil {
		return s.List(ctx, owner)
	}

	if err := s.repo.Delete(ctx, lineID); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "removing cart line")
	}

	metrics.CartMutations.WithLabelValues("remove").Inc()
	s.signal(ctx, owner)
	return s.List(ctx, owner)
}

func (s *service) Clear(ctx context.Context, owner types.Identity) error {
	if err := owner.Validate(); err != nil {
		return errors.Wrap(errors.CodeValidation, err, "invalid cart owner")
	}
	if err := s.repo.DeleteByOwner(ctx, owner); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "clearing cart")
	}
	metrics.CartMutations.WithLabelValues("clear").Inc()
	s.signal(ctx, owner)
	return nil
}

func (s *service) Count(ctx context.Context, owner types.Identity) (int, error) {
	if err := owner.Validate(); err != nil {
		return 0, errors.Wrap(errors.CodeValidation, err, "invalid cart owner")
	}
	count, err := s.repo.CountByOwner(ctx, owner)
	if err != nil {
		return 0, errors.Wrap(errors.CodeInternal, err, "counting cart lines")
	}
	return int(count), nil
}

// Adopt folds a guest session cart into the signed-in user's cart. Lines
// for the same (product, size) merge by quantity addition; the session
// cart is emptied in the same transaction.
func (s *service) Adopt(ctx context.Context, userID uuid.UUID, sessionToken string) error {
	if userID == uuid.Nil {
		return errors.New(errors.CodeValidation, "user id is required")
	}
	if sessionToken == "" {
		return errors.New(errors.CodeValidation, "session token is required")
	}
	if s.client == nil {
		return errors.New(errors.CodeInternal, "db client is required for adoption")
	}

	userOwner := types.Authenticated(userID)
	sessionOwner := types.Anonymous(sessionToken)

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		guestLines, err := txRepo.ListByOwner(ctx, sessionOwner)
		if err != nil {
			return fmt.Errorf("listing guest cart: %w", err)
		}
		if len(guestLines) == 0 {
			return nil
		}

		for _, line := range guestLines {
			adopted := &models.CartItem{
				ID:        uuid.New(),
				OwnerKind: userOwner.Kind,
				OwnerRef:  userOwner.Ref,
				ProductID: line.ProductID,
				Size:      line.Size,
				Quantity:  line.Quantity,
			}
			if err := txRepo.UpsertMerge(ctx, adopted); err != nil {
				return fmt.Errorf("merging guest line: %w", err)
			}
		}

		if err := txRepo.DeleteByOwner(ctx, sessionOwner); err != nil {
			return fmt.Errorf("clearing guest cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "adopting guest cart")
	}

	metrics.CartMutations.WithLabelValues("adopt").Inc()
	s.signal(ctx, userOwner)
	s.signal(ctx, sessionOwner)
	return nil
}

// ownedLine loads a line and hides lines owned by someone else.
func (s *service) ownedLine(ctx context.Context, owner types.Identity, lineID uuid.UUID) (*models.CartItem, error) {
	line, err := s.repo.FindByID(ctx, lineID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "fetching cart line")
	}
	if line == nil {
		return nil, nil
	}
	if line.OwnerKind != owner.Kind || line.OwnerRef != owner.Ref {
		return nil, nil
	}
	return line, nil
}

// signal notifies listeners that the owner's cart changed. Delivery is
// best-effort; a failed publish never fails the mutation.
func (s *service) signal(ctx context.Context, owner types.Identity) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishCartChanged(ctx, owner); err != nil && s.logg != nil {
		logCtx := s.logg.WithIdentity(ctx, owner.Kind.String(), owner.Ref)
		s.logg.Warn(logCtx, "cart change signal publish failed")
	}
}
