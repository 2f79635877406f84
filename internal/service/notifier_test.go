package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formgate/internal/model"
)

type fakeMailer struct {
	response string
	err      error

	to      string
	subject string
	body    string
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	m.to = to
	m.subject = subject
	m.body = htmlBody
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

type fakeLogStore struct {
	err  error
	logs []model.EmailLog
}

func (s *fakeLogStore) CreateEmailLog(ctx context.Context, submissionID uint, status, providerResponse string) error {
	if s.err != nil {
		return s.err
	}
	s.logs = append(s.logs, model.EmailLog{
		SubmissionID:     submissionID,
		Status:           status,
		ProviderResponse: providerResponse,
	})
	return nil
}

func TestNotifySuccess(t *testing.T) {
	mailer := &fakeMailer{response: "msg-123"}
	store := &fakeLogStore{}
	notifier := NewEmailNotifier(mailer, store, testMetrics, time.Second)

	form := &model.Form{ID: 1, Name: "Contact", NotificationEmail: "owner@example.com"}
	notifier.Notify(form, model.JSONMap{"name": "Bob", "email": "bob@example.com"}, 42)

	assert.Equal(t, "owner@example.com", mailer.to)
	assert.Equal(t, "New submission: Contact", mailer.subject)
	assert.Contains(t, mailer.body, "<strong>name:</strong> Bob")
	assert.Contains(t, mailer.body, "<strong>email:</strong> bob@example.com")
	assert.Contains(t, mailer.body, "Submission ID: 42")

	require.Len(t, store.logs, 1)
	assert.Equal(t, uint(42), store.logs[0].SubmissionID)
	assert.Equal(t, model.EmailStatusSent, store.logs[0].Status)
	assert.Equal(t, "msg-123", store.logs[0].ProviderResponse)
}

func TestNotifyMailerFailure(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	store := &fakeLogStore{}
	notifier := NewEmailNotifier(mailer, store, testMetrics, time.Second)

	form := &model.Form{ID: 1, Name: "Contact", NotificationEmail: "owner@example.com"}
	notifier.Notify(form, model.JSONMap{"name": "Bob"}, 42)

	// A failed attempt still records exactly one log row
	require.Len(t, store.logs, 1)
	assert.Equal(t, model.EmailStatusFailed, store.logs[0].Status)
	assert.Contains(t, store.logs[0].ProviderResponse, "smtp down")
}

func TestNotifyLogFailureDoesNotPanic(t *testing.T) {
	mailer := &fakeMailer{response: "msg-123"}
	store := &fakeLogStore{err: errors.New("db down")}
	notifier := NewEmailNotifier(mailer, store, testMetrics, time.Second)

	form := &model.Form{ID: 1, Name: "Contact", NotificationEmail: "owner@example.com"}

	assert.NotPanics(t, func() {
		notifier.Notify(form, model.JSONMap{"name": "Bob"}, 42)
	})
}

func TestRenderBodyEscapesAndSorts(t *testing.T) {
	body := renderBody("My <Form>", model.JSONMap{
		"b_field": "<script>",
		"a_field": "plain",
	}, 7)

	assert.Contains(t, body, "My &lt;Form&gt;")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.NotContains(t, body, "<script>")

	// Fields are rendered in sorted order
	assert.Less(t, strings.Index(body, "a_field"), strings.Index(body, "b_field"))
	assert.Contains(t, body, "Submission ID: 7")
}
