package settings

import (
	"context"
	"testing"

	"github.com/amazingstor/backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestIntValueReturnsStoredValue(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	if err := db.Create(&models.ServerSetting{Name: "cart_life_span", IntValue: 45}).Error; err != nil {
		t.Fatalf("seed setting: %v", err)
	}

	repo := NewRepository(db)
	value, err := repo.IntValue(context.Background(), "cart_life_span")
	if err != nil {
		t.Fatalf("IntValue: %v", err)
	}
	if value == nil || *value != 45 {
		t.Fatalf("expected 45, got %v", value)
	}
}

func TestIntValueMissingSetting(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	value, err := repo.IntValue(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("IntValue: %v", err)
	}
	if value != nil {
		t.Fatalf("expected nil for missing setting, got %d", *value)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:settings_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.ServerSetting{}); err != nil {
		t.Fatalf("migrate settings: %v", err)
	}
	return db
}
