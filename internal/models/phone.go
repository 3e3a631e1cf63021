package models

import (
	"time"

	"gorm.io/gorm"
)

// Brand represents a phone manufacturer
type Brand struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`

	Phones []Phone `gorm:"foreignKey:BrandID" json:"phones,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Brand model
func (Brand) TableName() string {
	return "brands"
}

// Phone represents a model sold by a brand
type Phone struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	BrandID  uint   `gorm:"not null;index" json:"brandId"`
	Name     string `gorm:"not null;index" json:"name"`
	Code     string `json:"code,omitempty"`
	IsTablet bool   `gorm:"default:false" json:"isTablet"`

	Brand *Brand `gorm:"foreignKey:BrandID" json:"brand,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Phone model
func (Phone) TableName() string {
	return "phones"
}
