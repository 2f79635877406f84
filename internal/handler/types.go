package handler

import (
	"time"

	"formgate/internal/model"
)

// FormRequest represents the request structure for creating/updating forms
type FormRequest struct {
	Name              string        `json:"name" binding:"required"`
	Fields            model.JSONMap `json:"fields"`
	NotificationEmail string        `json:"notification_email" binding:"omitempty,email"`
	IsActive          *bool         `json:"is_active"`
}

// FormResponse represents the response structure for forms
type FormResponse struct {
	ID                uint          `json:"id"`
	Name              string        `json:"name"`
	Fields            model.JSONMap `json:"fields"`
	IsActive          bool          `json:"is_active"`
	NotificationEmail string        `json:"notification_email"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// IntakeResponse is returned to the embed script on accepted submissions.
// Its shape is identical whether or not the submission was flagged spam.
type IntakeResponse struct {
	Success      bool `json:"success"`
	SubmissionID uint `json:"submission_id"`
}

// SpamSignalResponse represents one recorded spam signal
type SpamSignalResponse struct {
	Signal    string    `json:"signal"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmissionResponse represents the response structure for submissions
type SubmissionResponse struct {
	ID            uint                 `json:"id"`
	FormID        uint                 `json:"form_id"`
	Payload       model.JSONMap        `json:"payload"`
	OriginAddress string               `json:"origin_address"`
	UserAgent     string               `json:"user_agent"`
	IsSpam        bool                 `json:"is_spam"`
	SpamReason    string               `json:"spam_reason"`
	CreatedAt     time.Time            `json:"created_at"`
	Signals       []SpamSignalResponse `json:"signals,omitempty"`
}

// EmailLogResponse represents the response structure for email logs
type EmailLogResponse struct {
	ID               uint      `json:"id"`
	SubmissionID     uint      `json:"submission_id"`
	Status           string    `json:"status"`
	ProviderResponse string    `json:"provider_response"`
	CreatedAt        time.Time `json:"created_at"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	Sweeper   string    `json:"sweeper"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
