package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is embedded by every persisted entity. IDs are UUID strings.
type Base struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// Contact holds the fields shared by suppliers and clients.
type Contact struct {
	Name    string `json:"name"    gorm:"size:191;index;not null"`
	Email   string `json:"email"   gorm:"size:191"`
	Phone   string `json:"phone"   gorm:"size:64"`
	Address string `json:"address" gorm:"type:text"`
	Notes   string `json:"notes"   gorm:"type:text"`
}

// Details exposes the embedded contact fields to code shared by suppliers
// and clients.
func (c *Contact) Details() *Contact { return c }
