package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a shop customer, created on first repair intake or explicitly
type Customer struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null" json:"name"`
	Tel   string `gorm:"uniqueIndex;not null" json:"tel"`
	Email string `json:"email,omitempty"`

	Repairs []Repair `gorm:"foreignKey:CustomerID" json:"repairs,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Customer model
func (Customer) TableName() string {
	return "customers"
}
