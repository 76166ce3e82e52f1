package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is the single cart owned by a user. A dead cart keeps its item rows but
// holds no stock; reviving it re-reserves the recorded quantities.
type Cart struct {
	ID      uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID  uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Updated time.Time  `gorm:"column:updated;not null;index"`
	IsDead  bool       `gorm:"column:is_dead;not null;default:false;index"`
	Items   []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Updated.IsZero() {
		c.Updated = time.Now().UTC()
	}
	return nil
}
