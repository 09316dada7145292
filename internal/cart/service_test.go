package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/divya8341883853/clothstore-backend/internal/products"
	"github.com/divya8341883853/clothstore-backend/pkg/db/models"
	"github.com/divya8341883853/clothstore-backend/pkg/enums"
	"github.com/divya8341883853/clothstore-backend/pkg/errors"
	"github.com/divya8341883853/clothstore-backend/pkg/pagination"
	"github.com/divya8341883853/clothstore-backend/pkg/types"
)

type memCartRepo struct {
	lines map[uuid.UUID]*models.CartItem
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{lines: map[uuid.UUID]*models.CartItem{}}
}

func (m *memCartRepo) WithTx(tx *gorm.DB) Repository { return m }

func (m *memCartRepo) ListByOwner(ctx context.Context, owner types.Identity) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, line := range m.lines {
		if line.OwnerKind == owner.Kind && line.OwnerRef == owner.Ref {
			out = append(out, *line)
		}
	}
	return out, nil
}

func (m *memCartRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	if line, ok := m.lines[id]; ok {
		copied := *line
		return &copied, nil
	}
	return nil, nil
}

func (m *memCartRepo) UpsertMerge(ctx context.Context, item *models.CartItem) error {
	for _, line := range m.lines {
		if line.OwnerKind == item.OwnerKind && line.OwnerRef == item.OwnerRef &&
			line.ProductID == item.ProductID && line.Size == item.Size {
			line.Quantity += item.Quantity
			item.ID = line.ID
			return nil
		}
	}
	item.ID = uuid.New()
	copied := *item
	m.lines[item.ID] = &copied
	return nil
}

func (m *memCartRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	if line, ok := m.lines[id]; ok {
		line.Quantity = quantity
	}
	return nil
}

func (m *memCartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.lines, id)
	return nil
}

func (m *memCartRepo) DeleteByOwner(ctx context.Context, owner types.Identity) error {
	for id, line := range m.lines {
		if line.OwnerKind == owner.Kind && line.OwnerRef == owner.Ref {
			delete(m.lines, id)
		}
	}
	return nil
}

func (m *memCartRepo) CountByOwner(ctx context.Context, owner types.Identity) (int64, error) {
	var count int64
	for _, line := range m.lines {
		if line.OwnerKind == owner.Kind && line.OwnerRef == owner.Ref {
			count++
		}
	}
	return count, nil
}

type memCatalog struct {
	products map[uuid.UUID]*models.Product
}

func newMemCatalog(products ...*models.Product) *memCatalog {
	catalog := &memCatalog{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		catalog.products[p.ID] = p
	}
	return catalog
}

func (m *memCatalog) WithTx(tx *gorm.DB) products.Repository { return m }

func (m *memCatalog) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return m.products[id], nil
}

func (m *memCatalog) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memCatalog) List(ctx context.Context, filter products.ListFilter, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	return nil, nil
}

type recordingPublisher struct {
	published []types.Identity
	err       error
}

func (r *recordingPublisher) PublishCartChanged(ctx context.Context, owner types.Identity) error {
	if r.err != nil {
		return r.err
	}
	r.published = append(r.published, owner)
	return nil
}

func testProduct(name string, price float64, sizes ...string) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.NewFromFloat(price),
		Category: enums.ProductCategoryMen,
		Sizes:    sizes,
	}
}

func newCartService(t *testing.T, repo Repository, catalog *memCatalog, pub Publisher) Service {
	t.Helper()
	svc, err := NewService(nil, repo, catalog, pub, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestAdd_MergesSameProductAndSizeIntoOneLine(t *testing.T) {
	product := testProduct("plain tee", 25.00, "S", "M", "L")
	repo := newMemCartRepo()
	pub := &recordingPublisher{}
	svc := newCartService(t, repo, newMemCatalog(product), pub)

	owner := types.Anonymous("sess-A")
	ctx := context.Background()

	if _, err := svc.Add(ctx, owner, AddInput{ProductID: product.ID, Size: "M", Quantity: 2}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	view, err := svc.Add(ctx, owner, AddInput{ProductID: product.ID, Size: "M", Quantity: 1})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(view.Items) != 1 {
		t.Fatalf("got %d lines, want 1 merged line", len(view.Items))
	}
	if view.Items[0].Quantity != 3 {
		t.Fatalf("merged quantity = %d, want 3", view.Items[0].Quantity)
	}
	if len(pub.published) != 2 {
		t.Fatalf("expected 2 change signals, got %d", len(pub.published))
	}
}

func TestAdd_DifferentSizesStayDistinctLines(t *testing.T) {
	product := testProduct("plain tee", 25.00, "S", "M")
	repo := newMemCartRepo()
	svc := newCartService(t, repo, newMemCatalog(product), nil)

	owner := types.Anonymous("sess-A")
	ctx := context.Background()

	if _, err := svc.Add(ctx, owner, AddInput{ProductID: product.ID, Size: "S", Quantity: 1}); err != nil {
		t.Fatalf("add S failed: %v", err)
	}
	view, err := svc.Add(ctx, owner, AddInput{ProductID: product.ID, Size: "M", Quantity: 1})
	if err != nil {
		t.Fatalf("add M failed: %v", err)
	}
	if len(view.Items) != 2 {
		t.Fatalf("got %d lines, want 2", len(view.Items))
	}
}

func TestAdd_RejectsUnofferedSize(t *testing.T) {
	product := testProduct("plain tee", 25.00, "S", "M")
	svc := newCartService(t, newMemCartRepo(), newMemCatalog(product), nil)

	_, err := svc.Add(context.Background(), types.Anonymous("sess-A"), AddInput{
		ProductID: product.ID, Size: "XXL", Quantity: 1,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestAdd_UnknownProductNotFound(t *testing.T) {
	svc := newCartService(t, newMemCartRepo(), newMemCatalog(), nil)

	_, err := svc.Add(context.Background(), types.Anonymous("sess-A"), AddInput{
		ProductID: uuid.New(), Size: "M", Quantity: 1,
	})
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestSetQuantity_FloorsAtOne(t *testing.T) {
	product := testProduct("plain tee", 25.00, "M")
	repo := newMemCartRepo()
	svc := newCartService(t, repo, newMemCatalog(product), nil)

	owner := types.Anonymous("sess-A")
	ctx := context.Background()
	view, err := svc.Add(ctx, owner, AddInput{ProductID: product.ID, Size: "M", Quantity: 1})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	lineID := view.Items[0].ID

	view, err = svc.SetQuantity(ctx, owner, lineID, 0)
	if err != nil {
		t.Fatalf("SetQuantity returned error: %v", err)
	}
	if view.Items[0].Quantity != 1 {
		t.Fatalf("quantity = %d, want unchanged 1", view.Items[0].Quantity)
	}

	view, err = svc.SetQuantity(ctx, owner, lineID, 4)
	if err != nil {
		t.Fatalf("SetQuantity returned error: %v", err)
	}
	if view.Items[0].Quantity != 4 {
		t.Fatalf("quantity = %d, want 4", view.Items[0].Quantity)
	}
}

func TestSetQuantity_HidesForeignLines(t *testing.T) {
	product := testProduct("plain tee", 25.00, "M")
	repo := newMemCartRepo()
	svc := newCartService(t, repo, newMemCatalog(product), nil)

	ctx := context.Background()
	view, err := svc.Add(ctx, types.Anonymous("sess-A"), AddInput{ProductID: product.ID, Size: "M"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	_, err = svc.SetQuantity(ctx, types.Anonymous("sess-B"), view.Items[0].ID, 5)
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for foreign line, got %v", err)
	}
}

func TestRemove_IsIdempotent(t *testing.T) {
	product := testProduct("plain tee", 25.00, "M")
	repo := newMemCartRepo()
	svc := newCartService(t, repo, newMemCatalog(product), nil)

	owner := types.Anonymous("sess-A")
	ctx := context.Background()
	view, err := svc.Add(ctx, owner, AddInput{ProductID: product.ID, Size: "M"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	lineID := view.Items[0].ID

	if _, err := svc.Remove(ctx, owner, lineID); err != nil {
		t.Fatalf("first remove failed: %v", err)
	}
	view, err = svc.Remove(ctx, owner, lineID)
	if err != nil {
		t.Fatalf("second remove should be a no-op, got %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("cart should be empty, has %d lines", len(view.Items))
	}
}

func TestCount_CountsDistinctLinesNotQuantities(t *testing.T) {
	product := testProduct("plain tee", 25.00, "S", "M")
	repo := newMemCartRepo()
	svc := newCartService(t, repo, newMemCatalog(product), nil)

	owner := types.Anonymous("sess-A")
	ctx := context.Background()
	if _, err := svc.Add(ctx, owner, AddInput{ProductID: product.ID, Size: "S", Quantity: 5}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.Add(ctx, owner, AddInput{ProductID: product.ID, Size: "M", Quantity: 2}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	count, err := svc.Count(ctx, owner)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2 lines", count)
	}
}

func TestMutations_SurviveSignalPublishFailure(t *testing.T) {
	product := testProduct("plain tee", 25.00, "M")
	repo := newMemCartRepo()
	pub := &recordingPublisher{err: context.DeadlineExceeded}
	svc := newCartService(t, repo, newMemCatalog(product), pub)

	view, err := svc.Add(context.Background(), types.Anonymous("sess-A"), AddInput{
		ProductID: product.ID, Size: "M",
	})
	if err != nil {
		t.Fatalf("add should succeed despite publish failure: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("line not stored")
	}
}
