package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/divya8341883853/clothstore-backend/internal/cart"
	"github.com/divya8341883853/clothstore-backend/internal/orders"
	"github.com/divya8341883853/clothstore-backend/internal/users"
	"github.com/divya8341883853/clothstore-backend/pkg/db"
	"github.com/divya8341883853/clothstore-backend/pkg/db/models"
	"github.com/divya8341883853/clothstore-backend/pkg/enums"
	"github.com/divya8341883853/clothstore-backend/pkg/errors"
	"github.com/divya8341883853/clothstore-backend/pkg/outbox"
	"github.com/divya8341883853/clothstore-backend/pkg/types"
)

var checkoutDDL = map[string]string{
	"users": `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at DATETIME
);`,
	"products": `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL,
  sizes TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	"cart_items": `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  owner_kind TEXT NOT NULL,
  owner_ref TEXT NOT NULL,
  product_id TEXT NOT NULL,
  size TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS ux_cart_items_owner_product_size
  ON cart_items (owner_kind, owner_ref, product_id, size);`,
	"orders": `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total_price TEXT NOT NULL,
  order_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'confirmed',
  created_at DATETIME
);`,
	"order_items": `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  size TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price_at_purchase TEXT NOT NULL,
  created_at DATETIME
);`,
	"outbox_events": `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`,
}

// setupCheckoutTestDB opens a named in-memory database so each test gets an
// isolated schema, optionally leaving tables out to force step failures.
func setupCheckoutTestDB(t *testing.T, skipTables ...string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	skipped := map[string]bool{}
	for _, name := range skipTables {
		skipped[name] = true
	}
	for name, ddl := range checkoutDDL {
		if skipped[name] {
			continue
		}
		require.NoError(t, conn.Exec(ddl).Error)
	}
	return conn
}

type checkoutFixture struct {
	conn      *gorm.DB
	client    *db.Client
	svc       Service
	cartRepo  cart.Repository
	userID    uuid.UUID
	owner     types.Identity
	published []types.Identity
}

type fixturePublisher struct {
	fixture *checkoutFixture
}

func (p *fixturePublisher) PublishCartChanged(ctx context.Context, owner types.Identity) error {
	p.fixture.published = append(p.fixture.published, owner)
	return nil
}

func newCheckoutFixture(t *testing.T, skipTables ...string) *checkoutFixture {
	t.Helper()

	conn := setupCheckoutTestDB(t, skipTables...)
	client := db.NewFromConn(conn)

	fixture := &checkoutFixture{conn: conn, client: client}

	cartRepo := cart.NewRepository(client)
	orderRepo := orders.NewRepository(client)
	userRepo := users.NewRepository(client)
	emitter := outbox.NewService(outbox.NewRepository(conn), nil)

	svc, err := NewService(client, cartRepo, orderRepo, userRepo, emitter, &fixturePublisher{fixture}, nil)
	require.NoError(t, err)

	fixture.svc = svc
	fixture.cartRepo = cartRepo

	user := &models.User{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		Name:         "Shopper",
		PasswordHash: "x",
	}
	require.NoError(t, conn.Create(user).Error)
	fixture.userID = user.ID
	fixture.owner = types.Authenticated(user.ID)
	return fixture
}

func (f *checkoutFixture) seedProduct(t *testing.T, name string, price float64) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.NewFromFloat(price),
		Category: enums.ProductCategoryWomen,
		Sizes:    []string{"S", "M", "L"},
	}
	require.NoError(t, f.conn.Create(product).Error)
	return product
}

func (f *checkoutFixture) seedCartLine(t *testing.T, productID uuid.UUID, size string, qty int) {
	t.Helper()
	item := &models.CartItem{
		ID:        uuid.New(),
		OwnerKind: f.owner.Kind,
		OwnerRef:  f.owner.Ref,
		ProductID: productID,
		Size:      size,
		Quantity:  qty,
	}
	require.NoError(t, f.cartRepo.UpsertMerge(context.Background(), item))
}

func TestPlaceOrder_FreezesPricesAndClearsCart(t *testing.T) {
	fixture := newCheckoutFixture(t)
	ctx := context.Background()

	tee := fixture.seedProduct(t, "plain tee", 25.00)
	jacket := fixture.seedProduct(t, "denim jacket", 60.00)
	fixture.seedCartLine(t, tee.ID, "M", 2)
	fixture.seedCartLine(t, jacket.ID, "L", 1)

	view, err := fixture.svc.PlaceOrder(ctx, fixture.owner)
	require.NoError(t, err)

	assert.True(t, view.TotalPrice.Equal(decimal.NewFromFloat(110.00)),
		"total = %s, want 110.00", view.TotalPrice)
	assert.Equal(t, enums.OrderStatusConfirmed, view.Status)
	require.Len(t, view.Items, 2)

	count, err := fixture.cartRepo.CountByOwner(ctx, fixture.owner)
	require.NoError(t, err)
	assert.Zero(t, count, "cart should be empty after placement")

	var orderCount int64
	require.NoError(t, fixture.conn.Model(&models.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 1, orderCount)

	require.NotEmpty(t, fixture.published, "expected a cart change signal after placement")
}

func TestPlaceOrder_PriceAtPurchaseIgnoresLaterCatalogChanges(t *testing.T) {
	fixture := newCheckoutFixture(t)
	ctx := context.Background()

	tee := fixture.seedProduct(t, "plain tee", 25.00)
	fixture.seedCartLine(t, tee.ID, "M", 1)

	view, err := fixture.svc.PlaceOrder(ctx, fixture.owner)
	require.NoError(t, err)

	require.NoError(t, fixture.conn.Model(&models.Product{}).
		Where("id = ?", tee.ID).
		Update("price", decimal.NewFromFloat(99.00)).Error)

	var item models.OrderItem
	require.NoError(t, fixture.conn.Where("order_id = ?", view.ID).First(&item).Error)
	assert.True(t, item.PriceAtPurchase.Equal(decimal.NewFromFloat(25.00)),
		"price_at_purchase = %s, want frozen 25.00", item.PriceAtPurchase)
}

func TestPlaceOrder_QueuesConfirmationEvent(t *testing.T) {
	fixture := newCheckoutFixture(t)
	ctx := context.Background()

	tee := fixture.seedProduct(t, "plain tee", 25.00)
	fixture.seedCartLine(t, tee.ID, "M", 1)

	view, err := fixture.svc.PlaceOrder(ctx, fixture.owner)
	require.NoError(t, err)

	var events []models.OutboxEvent
	require.NoError(t, fixture.conn.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventOrderConfirmed, events[0].EventType)
	assert.Equal(t, view.ID, events[0].AggregateID)
	assert.Nil(t, events[0].PublishedAt)
}

func TestPlaceOrder_RejectsGuests(t *testing.T) {
	fixture := newCheckoutFixture(t)

	_, err := fixture.svc.PlaceOrder(context.Background(), types.Anonymous("sess-guest"))
	require.Error(t, err)
	typed := errors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, errors.CodeUnauthorized, typed.Code())
}

func TestPlaceOrder_RejectsEmptyCart(t *testing.T) {
	fixture := newCheckoutFixture(t)

	_, err := fixture.svc.PlaceOrder(context.Background(), fixture.owner)
	require.Error(t, err)
	typed := errors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, errors.CodeValidation, typed.Code())
}

func TestPlaceOrder_ItemInsertFailureRollsBackAndKeepsCart(t *testing.T) {
	fixture := newCheckoutFixture(t, "order_items")
	ctx := context.Background()

	tee := fixture.seedProduct(t, "plain tee", 25.00)
	fixture.seedCartLine(t, tee.ID, "M", 1)

	_, err := fixture.svc.PlaceOrder(ctx, fixture.owner)
	require.Error(t, err)

	typed := errors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, errors.CodePartialFailure, typed.Code())

	details, ok := typed.Details().(map[string]any)
	require.True(t, ok, "partial failure should carry step details")
	assert.Equal(t, "order_items", details["step"])
	assert.NotEmpty(t, details["order_id"])

	// The transaction rolled back: no half-written order, cart untouched.
	var orderCount int64
	require.NoError(t, fixture.conn.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	count, err := fixture.cartRepo.CountByOwner(ctx, fixture.owner)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
