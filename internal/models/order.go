package models

import (
	"time"

	"gorm.io/gorm"
)

// Order represents a sell-through (stock-out) record
type Order struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	OrderNo string  `gorm:"uniqueIndex;not null" json:"orderNo"`
	Total   float64 `json:"total"`
	Remark  string  `json:"remark,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots a component line at time of sale
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"not null;index" json:"orderId"`
	ComponentID *uint   `gorm:"index" json:"componentId,omitempty"`
	Name        string  `gorm:"not null" json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int     `gorm:"not null" json:"quantity"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
