package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"formgate/internal/metrics"
	"formgate/internal/model"
	"formgate/internal/spam"
)

// SubmissionStore is the persistence surface the intake pipeline needs
type SubmissionStore interface {
	GetActiveForm(ctx context.Context, formID uint) (*model.Form, error)
	CreateSubmission(ctx context.Context, submission *model.Submission) error
	CreateSpamSignals(ctx context.Context, signals []model.SpamSignal) error
}

// Notifier dispatches a notification for an accepted submission. It runs
// detached from the request and must never propagate failures.
type Notifier interface {
	Notify(form *model.Form, payload model.JSONMap, submissionID uint)
}

// SubmissionResult is returned to the intake caller. Its shape is
// identical for spam and legitimate submissions.
type SubmissionResult struct {
	SubmissionID uint
}

// IntakeService orchestrates the submission intake pipeline
type IntakeService struct {
	store     SubmissionStore
	evaluator *spam.Evaluator
	notifier  Notifier
	metrics   *metrics.Metrics
}

// NewIntakeService creates a new intake service. notifier may be nil when
// notification delivery is disabled.
func NewIntakeService(store SubmissionStore, evaluator *spam.Evaluator, notifier Notifier, m *metrics.Metrics) *IntakeService {
	return &IntakeService{
		store:     store,
		evaluator: evaluator,
		notifier:  notifier,
		metrics:   m,
	}
}

// HandleSubmission runs the intake pipeline for one raw payload: form
// lookup, control-field stripping, spam evaluation, persistence, and
// fire-and-forget notification dispatch.
func (s *IntakeService) HandleSubmission(ctx context.Context, formID uint, rawPayload map[string]interface{}, originAddress, userAgent string) (*SubmissionResult, error) {
	s.metrics.SubmissionsReceived.Inc()

	form, err := s.store.GetActiveForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	// The evaluator sees the raw payload, control fields included; the
	// stored payload never does.
	cleaned := model.JSONMap(spam.StripControlFields(rawPayload))
	result := s.evaluator.Evaluate(rawPayload, originAddress)

	if result.IsSpam {
		s.metrics.SpamDetected.WithLabelValues(result.Signals[0].Name).Inc()
		logrus.WithFields(logrus.Fields{
			"form_id": formID,
			"origin":  originAddress,
			"reason":  result.Reason,
		}).Info("Submission classified as spam")
	}

	submission := &model.Submission{
		FormID:        form.ID,
		Payload:       cleaned,
		OriginAddress: originAddress,
		UserAgent:     userAgent,
		IsSpam:        result.IsSpam,
		SpamReason:    result.Reason,
	}

	if err := s.store.CreateSubmission(ctx, submission); err != nil {
		return nil, err
	}
	s.metrics.SubmissionsStored.Inc()

	// Signal persistence is best-effort: the submission is already
	// durable and the caller gets success regardless.
	if len(result.Signals) > 0 {
		signals := make([]model.SpamSignal, 0, len(result.Signals))
		for _, signal := range result.Signals {
			signals = append(signals, model.SpamSignal{
				SubmissionID: submission.ID,
				Signal:       signal.Name,
				Score:        signal.Score,
			})
		}
		if err := s.store.CreateSpamSignals(ctx, signals); err != nil {
			s.metrics.SignalPersistFailures.Inc()
			logrus.Errorf("Failed to persist spam signals for submission %d: %v", submission.ID, err)
		}
	}

	if !result.IsSpam && form.NotificationEmail != "" && s.notifier != nil {
		go s.notifier.Notify(form, cleaned, submission.ID)
	}

	return &SubmissionResult{SubmissionID: submission.ID}, nil
}
