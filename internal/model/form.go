package model

import (
	"time"

	"gorm.io/gorm"
)

// Form represents a hosted form definition
type Form struct {
	ID                uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name              string         `json:"name" gorm:"type:varchar(255);not null"`
	Fields            JSONMap        `json:"fields" gorm:"type:json"`
	IsActive          bool           `json:"is_active" gorm:"default:true"`
	NotificationEmail string         `json:"notification_email" gorm:"type:varchar(255)"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for Form
func (Form) TableName() string {
	return "forms"
}
