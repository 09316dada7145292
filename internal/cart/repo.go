package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/divya8341883853/clothstore-backend/pkg/db"
	"github.com/divya8341883853/clothstore-backend/pkg/db/models"
	"github.com/divya8341883853/clothstore-backend/pkg/types"
)

// Repository exposes persistence for cart lines. All owner-scoped queries
// key on the (owner_kind, owner_ref) pair so user and session carts never
// bleed into each other.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByOwner(ctx context.Context, owner types.Identity) ([]models.CartItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CartItem, error)
	UpsertMerge(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOwner(ctx context.Context, owner types.Identity) error
	CountByOwner(ctx context.Context, owner types.Identity) (int64, error)
}

type gormRepository struct {
	client *db.Client
	tx     *gorm.DB
}

func NewRepository(client *db.Client) Repository {
	return &gormRepository{client: client}
}

func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{client: r.client, tx: tx}
}

func (r *gormRepository) conn(ctx context.Context) *gorm.DB {
	if r.tx != nil {
		return r.tx
	}
	return r.client.DB().WithContext(ctx)
}

func ownerScope(query *gorm.DB, owner types.Identity) *gorm.DB {
	return query.Where("owner_kind = ? AND owner_ref = ?", owner.Kind, owner.Ref)
}

func (r *gormRepository) ListByOwner(ctx context.Context, owner types.Identity) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := ownerScope(r.conn(ctx), owner).
		Preload("Product").
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.conn(ctx).Preload("Product").Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpsertMerge inserts a line or, when the (owner, product, size) line already
// exists, adds the quantity onto it. The merge happens in one statement so
// concurrent adds cannot create duplicate lines.
func (r *gormRepository) UpsertMerge(ctx context.Context, item *models.CartItem) error {
	return r.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "owner_kind"},
			{Name: "owner_ref"},
			{Name: "product_id"},
			{Name: "size"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
}

func (r *gormRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.conn(ctx).Model(&models.CartItem{}).
		Where("id = ?", id).
		Updates(map[string]any{"quantity": quantity}).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Where("id = ?", id).Delete(&models.CartItem{}).Error
}

func (r *gormRepository) DeleteByOwner(ctx context.Context, owner types.Identity) error {
	return ownerScope(r.conn(ctx), owner).Delete(&models.CartItem{}).Error
}

// CountByOwner returns the number of distinct lines, not the quantity sum.
func (r *gormRepository) CountByOwner(ctx context.Context, owner types.Identity) (int64, error) {
	var count int64
	err := ownerScope(r.conn(ctx).Model(&models.CartItem{}), owner).Count(&count).Error
	return count, err
}
