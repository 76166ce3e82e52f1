package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServerSetting holds operator-managed integer knobs, e.g. cart_life_span.
type ServerSetting struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name     string    `gorm:"column:name;not null;uniqueIndex"`
	IntValue int       `gorm:"column:int_value;not null"`
}

func (s *ServerSetting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
