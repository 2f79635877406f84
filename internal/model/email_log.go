package model

import (
	"time"
)

// Email log delivery statuses
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog records the outcome of one notification delivery attempt
type EmailLog struct {
	ID               uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	SubmissionID     uint      `json:"submission_id" gorm:"not null;index"`
	Status           string    `json:"status" gorm:"type:varchar(50);not null"`
	ProviderResponse string    `json:"provider_response" gorm:"type:text"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName specifies the table name for EmailLog
func (EmailLog) TableName() string {
	return "email_logs"
}
