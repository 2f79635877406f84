package model

import (
	"time"
)

// SpamSignal represents a named, scored spam indicator recorded for a submission
type SpamSignal struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	SubmissionID uint      `json:"submission_id" gorm:"not null;index"`
	Signal       string    `json:"signal" gorm:"type:varchar(64);not null"`
	Score        int       `json:"score" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for SpamSignal
func (SpamSignal) TableName() string {
	return "spam_signals"
}
