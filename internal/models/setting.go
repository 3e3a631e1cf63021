package models

import "time"

// Setting is a flat key-value store for shop configuration, upserted and never deleted
type Setting struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	SettingName  string `gorm:"uniqueIndex;not null" json:"settingName"`
	SettingValue string `json:"settingValue"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Setting model
func (Setting) TableName() string {
	return "settings"
}
