package settings

import (
	"context"
	"errors"

	"github.com/amazingstor/backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads operator-managed server settings. Values are optional by
// design: callers apply their own defaults when a setting is absent.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// IntValue returns the integer value stored under name, or nil when the
// setting does not exist.
func (r *Repository) IntValue(ctx context.Context, name string) (*int, error) {
	var row models.ServerSetting
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row.IntValue, nil
}
