package reports

import (
	"context"
	"testing"
	"time"

	"github.com/amazingstor/backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSumByDayEmpty(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))
	days, err := svc.SumByDay(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("SumByDay: %v", err)
	}
	if len(days) != 0 {
		t.Fatalf("expected no rows, got %d", len(days))
	}
}

func TestSumByDayGroupsAndOrders(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	dayOne := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	dayTwo := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	cheap := seedProduct(t, db, 100)
	pricey := seedProduct(t, db, 1000)

	// alice: 3 x 100 on day one
	seedCartWithItem(t, db, alice, dayOne, cheap, 3)
	// bob: 2 x 1000 on day one, outranking alice
	seedCartWithItem(t, db, bob, dayOne, pricey, 2)

	zoe := seedUser(t, db, "zoe")
	seedCartWithItem(t, db, zoe, dayTwo, pricey, 1)

	days, err := svc.SumByDay(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("SumByDay: %v", err)
	}

	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Day != "2026-03-01" || days[1].Day != "2026-03-02" {
		t.Fatalf("days out of order: %+v", days)
	}

	first := days[0].Totals
	if len(first) != 2 {
		t.Fatalf("expected 2 user totals on day one, got %d", len(first))
	}
	if first[0].Username != "bob" || first[0].TotalCents != 2000 {
		t.Fatalf("expected bob first with 2000, got %+v", first[0])
	}
	if first[1].Username != "alice" || first[1].TotalCents != 300 {
		t.Fatalf("expected alice second with 300, got %+v", first[1])
	}

	second := days[1].Totals
	if len(second) != 1 || second[0].Username != "zoe" || second[0].TotalCents != 1000 {
		t.Fatalf("unexpected day two totals %+v", second)
	}
}

func TestSumByDayDateRange(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	user := seedUser(t, db, "carol")
	product := seedProduct(t, db, 500)

	seedCartWithItem(t, db, user, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), product, 1)
	inRangeUser := seedUser(t, db, "dave")
	seedCartWithItem(t, db, inRangeUser, time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC), product, 2)
	lateUser := seedUser(t, db, "erin")
	seedCartWithItem(t, db, lateUser, time.Date(2026, 3, 3, 1, 0, 0, 0, time.UTC), product, 3)

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	days, err := svc.SumByDay(context.Background(), &start, &end)
	if err != nil {
		t.Fatalf("SumByDay: %v", err)
	}

	if len(days) != 1 || days[0].Day != "2026-03-02" {
		t.Fatalf("expected only 2026-03-02, got %+v", days)
	}
	if len(days[0].Totals) != 1 || days[0].Totals[0].Username != "dave" || days[0].Totals[0].TotalCents != 1000 {
		t.Fatalf("unexpected totals %+v", days[0].Totals)
	}
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:reports_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Cart{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, priceCents int64) *models.Product {
	t.Helper()
	product := &models.Product{Name: "widget", PriceCents: priceCents, StockQuantity: 100}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func seedCartWithItem(t *testing.T, db *gorm.DB, user *models.User, updated time.Time, product *models.Product, qty int) {
	t.Helper()
	cart := &models.Cart{UserID: user.ID, Updated: updated}
	if err := db.Create(cart).Error; err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	item := &models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: qty}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed cart item: %v", err)
	}
}
