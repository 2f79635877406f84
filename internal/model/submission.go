package model

import (
	"time"
)

// Submission represents a single form submission. Rows are written once
// at intake and never updated afterward.
type Submission struct {
	ID            uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	FormID        uint      `json:"form_id" gorm:"not null;index"`
	Payload       JSONMap   `json:"payload" gorm:"type:json"`
	OriginAddress string    `json:"origin_address" gorm:"type:varchar(64);index"`
	UserAgent     string    `json:"user_agent" gorm:"type:text"`
	IsSpam        bool      `json:"is_spam" gorm:"default:false"`
	SpamReason    string    `json:"spam_reason" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`

	Form    *Form        `json:"form,omitempty" gorm:"foreignKey:FormID"`
	Signals []SpamSignal `json:"signals,omitempty" gorm:"foreignKey:SubmissionID"`
}

// TableName specifies the table name for Submission
func (Submission) TableName() string {
	return "submissions"
}
