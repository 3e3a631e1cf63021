package models

import (
	"time"

	"gorm.io/gorm"
)

// CategoryType discriminates the two taxonomies sharing one table
const (
	CategoryTypeRepair    = "repair"    // repair problem types
	CategoryTypeComponent = "component" // component categories
)

// Category represents a two-level taxonomy root
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;index" json:"name"`
	Type string `gorm:"not null;index;default:'component'" json:"type"`

	Items []CategoryItem `gorm:"foreignKey:CategoryID" json:"items,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Category model
func (Category) TableName() string {
	return "categories"
}

// CategoryItem represents a leaf entry under a category
type CategoryItem struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CategoryID uint   `gorm:"not null;index" json:"categoryId"`
	Name       string `gorm:"not null" json:"name"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for CategoryItem model
func (CategoryItem) TableName() string {
	return "category_items"
}
