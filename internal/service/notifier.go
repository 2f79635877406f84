package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"formgate/internal/metrics"
	"formgate/internal/model"
)

// Mailer sends a single email and returns the provider's response
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// EmailLogStore records notification delivery outcomes
type EmailLogStore interface {
	CreateEmailLog(ctx context.Context, submissionID uint, status, providerResponse string) error
}

const emailLogTimeout = 5 * time.Second

// EmailNotifier renders and delivers submission notifications. Notify
// runs after the intake response has been sent, so every failure here is
// logged and swallowed.
type EmailNotifier struct {
	mailer      Mailer
	store       EmailLogStore
	metrics     *metrics.Metrics
	sendTimeout time.Duration
}

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(mailer Mailer, store EmailLogStore, m *metrics.Metrics, sendTimeout time.Duration) *EmailNotifier {
	return &EmailNotifier{
		mailer:      mailer,
		store:       store,
		metrics:     m,
		sendTimeout: sendTimeout,
	}
}

// Notify sends one notification for the submission and records exactly
// one email log row with the outcome. A single attempt is made; there is
// no retry.
func (n *EmailNotifier) Notify(form *model.Form, payload model.JSONMap, submissionID uint) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("Recovered from panic in notification dispatch for submission %d: %v", submissionID, r)
		}
	}()

	subject := fmt.Sprintf("New submission: %s", form.Name)
	body := renderBody(form.Name, payload, submissionID)

	sendCtx, cancel := context.WithTimeout(context.Background(), n.sendTimeout)
	defer cancel()

	status := model.EmailStatusSent
	response, err := n.mailer.Send(sendCtx, form.NotificationEmail, subject, body)
	if err != nil {
		status = model.EmailStatusFailed
		response = err.Error()
		n.metrics.NotificationsFailed.Inc()
		logrus.Errorf("Failed to send notification for submission %d: %v", submissionID, err)
	} else {
		n.metrics.NotificationsSent.Inc()
		logrus.Infof("Notification sent for submission %d to %s", submissionID, form.NotificationEmail)
	}

	logCtx, cancelLog := context.WithTimeout(context.Background(), emailLogTimeout)
	defer cancelLog()

	if err := n.store.CreateEmailLog(logCtx, submissionID, status, response); err != nil {
		logrus.Errorf("Failed to record email log for submission %d: %v", submissionID, err)
	}
}

// renderBody renders the cleaned payload as a flat list of field lines
// with the submission id in the trailer. Fields are sorted by name so the
// output is stable.
func renderBody(formName string, payload model.JSONMap, submissionID uint) string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h2>New submission for %s</h2>\n", html.EscapeString(formName)))
	for _, key := range keys {
		value := fmt.Sprintf("%v", payload[key])
		b.WriteString(fmt.Sprintf("<p><strong>%s:</strong> %s</p>\n",
			html.EscapeString(key), html.EscapeString(value)))
	}
	b.WriteString(fmt.Sprintf("<p><em>Submission ID: %d</em></p>\n", submissionID))
	return b.String()
}
