package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RepairStatus defines the lifecycle of a repair ticket.
// Values are the zh-CN strings shown on the dashboard and stored as-is.
type RepairStatus = string

const (
	RepairStatusInProgress RepairStatus = "维修中" // being repaired
	RepairStatusDone       RepairStatus = "已修好" // repaired, awaiting pickup
	RepairStatusPickedUp   RepairStatus = "已取机" // picked up by customer
	RepairStatusRework     RepairStatus = "返修中" // back under warranty rework
	RepairStatusUnfixable  RepairStatus = "无法修复" // could not be repaired
)

// Repair represents a single repair ticket owned by a customer
type Repair struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	TicketNo   string         `gorm:"uniqueIndex;not null" json:"ticketNo"`
	CustomerID uint           `gorm:"not null;index" json:"customerId"`
	PhoneModel string         `gorm:"not null;index" json:"phoneModel"`
	Problems   datatypes.JSON `json:"problems"` // list of problem descriptions
	Status     RepairStatus   `gorm:"default:'维修中';index" json:"status"`
	Deposit    float64        `json:"deposit"`
	Price      float64        `json:"price"`
	IsRework   bool           `gorm:"default:false" json:"isRework"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Warranty *Warranty `gorm:"foreignKey:RepairID" json:"warranty,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Repair model
func (Repair) TableName() string {
	return "repairs"
}

// Warranty tracks the warranty window of a completed repair
type Warranty struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	RepairID uint `gorm:"uniqueIndex;not null" json:"repairId"`
	Months   int  `gorm:"default:3" json:"months"`
	IsRework bool `gorm:"default:false" json:"isRework"`

	Repair *Repair `gorm:"foreignKey:RepairID" json:"repair,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Warranty model
func (Warranty) TableName() string {
	return "warranties"
}
