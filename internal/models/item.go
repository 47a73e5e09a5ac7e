package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is a treatment item (pallet type), keyed uniquely by code.
// Created lazily on first reference from a certificate.
type Item struct {
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;primaryKey" json:"item_id"`
	Code      string    `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Material  string    `gorm:"column:material" json:"material"`
	Size      string    `gorm:"column:size" json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Item) TableName() string {
	return "Items"
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ItemID == uuid.Nil {
		i.ItemID = uuid.New()
	}
	return nil
}
