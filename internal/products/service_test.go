package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/divya8341883853/clothstore-backend/pkg/db/models"
	"github.com/divya8341883853/clothstore-backend/pkg/enums"
	"github.com/divya8341883853/clothstore-backend/pkg/errors"
	"github.com/divya8341883853/clothstore-backend/pkg/pagination"
)

type stubProductRepo struct {
	rows    []models.Product
	listErr error

	gotFilter ListFilter
	gotCursor *pagination.Cursor
	gotLimit  int
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductRepo) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	s.gotFilter = filter
	s.gotCursor = cursor
	s.gotLimit = limit
	if s.listErr != nil {
		return nil, s.listErr
	}
	if len(s.rows) > limit {
		return s.rows[:limit], nil
	}
	return s.rows, nil
}

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	for i := range s.rows {
		if s.rows[i].ID == id {
			return &s.rows[i], nil
		}
	}
	return nil, nil
}

func (s *stubProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for i := range s.rows {
		for _, id := range ids {
			if s.rows[i].ID == id {
				out = append(out, s.rows[i])
			}
		}
	}
	return out, nil
}

func sampleProduct(name string, createdAt time.Time) models.Product {
	return models.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     decimal.NewFromFloat(19.99),
		Category:  enums.ProductCategoryMen,
		Sizes:     []string{"S", "M", "L"},
		CreatedAt: createdAt,
	}
}

func TestList_SetsNextCursorWhenMoreRowsExist(t *testing.T) {
	base := time.Now().UTC().Truncate(time.Second)
	repo := &stubProductRepo{}
	for i := 0; i < 3; i++ {
		repo.rows = append(repo.rows, sampleProduct("tee", base.Add(-time.Duration(i)*time.Minute)))
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	result, err := svc.List(context.Background(), ListFilter{}, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(result.Products) != 2 {
		t.Fatalf("got %d products, want 2", len(result.Products))
	}
	if result.NextCursor == "" {
		t.Fatal("expected next cursor")
	}
	if repo.gotLimit != 3 {
		t.Fatalf("repo limit = %d, want limit+1 = 3", repo.gotLimit)
	}

	cursor, err := pagination.ParseCursor(result.NextCursor)
	if err != nil {
		t.Fatalf("cursor does not parse: %v", err)
	}
	if cursor.ID != result.Products[1].ID {
		t.Fatalf("cursor points at %s, want last returned product %s", cursor.ID, result.Products[1].ID)
	}
}

func TestList_NoCursorOnFinalPage(t *testing.T) {
	repo := &stubProductRepo{rows: []models.Product{sampleProduct("tee", time.Now())}}
	svc, _ := NewService(repo)

	result, err := svc.List(context.Background(), ListFilter{}, pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.NextCursor != "" {
		t.Fatalf("unexpected next cursor %q", result.NextCursor)
	}
}

func TestList_RejectsUnknownCategory(t *testing.T) {
	svc, _ := NewService(&stubProductRepo{})

	_, err := svc.List(context.Background(), ListFilter{Category: "Pets"}, pagination.Params{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := NewService(&stubProductRepo{})

	_, err := svc.Get(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
