package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Component represents a stocked spare part
type Component struct {
	ID       uint           `gorm:"primaryKey" json:"id"`
	Code     string         `gorm:"uniqueIndex;not null" json:"code"`
	Name     string         `gorm:"not null;index" json:"name"`
	Alias    string         `json:"alias,omitempty"`
	Brand    string         `gorm:"index" json:"brand"`
	Models   datatypes.JSON `json:"models"` // compatible phone models
	Category string         `gorm:"index" json:"category"`
	Quality  string         `json:"quality"` // e.g. 原装 / 国产 / 拆机

	// Supplier linkage is a weak reference: the id is authoritative when set,
	// the stored name doubles as a display fallback if the supplier is gone.
	SupplierID   *uint  `gorm:"index" json:"supplierId,omitempty"`
	SupplierName string `gorm:"index" json:"supplierName"`

	Stock         int     `gorm:"default:0" json:"stock"`
	PurchasePrice float64 `json:"purchasePrice"`
	PublicPrice   float64 `json:"publicPrice"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Component model
func (Component) TableName() string {
	return "components"
}

// Supplier represents a parts supplier with its ordering-portal credentials
type Supplier struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description,omitempty"`
	Site        string `json:"site,omitempty"`

	// Portal credentials are AES-GCM encrypted at rest (see utils.EncryptSecret)
	Username string `json:"username,omitempty"`
	Password string `json:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}
