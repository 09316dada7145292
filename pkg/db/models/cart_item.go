package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/divya8341883853/clothstore-backend/pkg/enums"
)

// CartItem is one (owner, product, size) line with a quantity. The
// four-column unique index is the storage-level guard against duplicate
// lines when concurrent adds race past the read-then-write check.
type CartItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerKind enums.OwnerKind `gorm:"column:owner_kind;type:owner_kind;not null;uniqueIndex:ux_cart_items_owner_product_size"`
	OwnerRef  string          `gorm:"column:owner_ref;not null;uniqueIndex:ux_cart_items_owner_product_size"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_cart_items_owner_product_size"`
	Size      string          `gorm:"column:size;not null;uniqueIndex:ux_cart_items_owner_product_size"`
	Quantity  int             `gorm:"column:quantity;not null;default:1"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
