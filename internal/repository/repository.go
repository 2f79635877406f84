package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"formgate/internal/model"
)

// ErrFormNotFound is returned when a form does not exist or is inactive.
// The two cases are deliberately indistinguishable so that disabled forms
// cannot be probed.
var ErrFormNotFound = errors.New("form not found")

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetActiveForm looks up a form by id. Inactive forms are treated as absent.
func (r *Repository) GetActiveForm(ctx context.Context, formID uint) (*model.Form, error) {
	var form model.Form
	result := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", formID, true).First(&form)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("database error looking up form: %w", result.Error)
	}
	return &form, nil
}

// CreateSubmission persists a submission record and fills in its id
func (r *Repository) CreateSubmission(ctx context.Context, submission *model.Submission) error {
	result := r.db.WithContext(ctx).Create(submission)
	if result.Error != nil {
		return fmt.Errorf("failed to create submission: %w", result.Error)
	}
	return nil
}

// CreateSpamSignals persists the signal rows for a submission
func (r *Repository) CreateSpamSignals(ctx context.Context, signals []model.SpamSignal) error {
	if len(signals) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Create(&signals)
	if result.Error != nil {
		return fmt.Errorf("failed to create spam signals: %w", result.Error)
	}
	return nil
}

// CreateEmailLog records the outcome of a notification delivery attempt
func (r *Repository) CreateEmailLog(ctx context.Context, submissionID uint, status, providerResponse string) error {
	log := model.EmailLog{
		SubmissionID:     submissionID,
		Status:           status,
		ProviderResponse: providerResponse,
	}
	result := r.db.WithContext(ctx).Create(&log)
	if result.Error != nil {
		return fmt.Errorf("failed to create email log: %w", result.Error)
	}
	return nil
}

// CountForms returns the total and active form counts for gauge refresh
func (r *Repository) CountForms(ctx context.Context) (total int64, active int64, err error) {
	if err = r.db.WithContext(ctx).Model(&model.Form{}).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count forms: %w", err)
	}
	if err = r.db.WithContext(ctx).Model(&model.Form{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count active forms: %w", err)
	}
	return total, active, nil
}
