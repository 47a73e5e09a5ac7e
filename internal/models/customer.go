package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is keyed uniquely by name; address is auto-filled into
// certificate forms and denormalized onto certificates at creation.
type Customer struct {
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;primaryKey" json:"customer_id"`
	Name       string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Address    string    `gorm:"column:address" json:"address"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Customer) TableName() string {
	return "Customers"
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.CustomerID == uuid.Nil {
		c.CustomerID = uuid.New()
	}
	return nil
}
