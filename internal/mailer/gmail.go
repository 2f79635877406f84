package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"formgate/internal/config"
)

// GmailMailer sends notification emails via the Gmail API
type GmailMailer struct {
	service   *gmail.Service
	userEmail string
}

// NewGmailMailer creates a new Gmail API mailer
func NewGmailMailer(cfg *config.GmailConfig) (*GmailMailer, error) {
	ctx := context.Background()

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{gmail.GmailSendScope},
		Endpoint:     google.Endpoint,
	}

	token := &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
	}

	tokenSource := oauth2Config.TokenSource(ctx, token)

	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &GmailMailer{
		service:   service,
		userEmail: cfg.UserEmail,
	}, nil
}

// Send delivers a single email and returns the provider's message id.
// One attempt only; the caller records the outcome either way.
func (m *GmailMailer) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	raw := m.buildMessage(to, subject, htmlBody)
	encoded := base64.URLEncoding.EncodeToString([]byte(raw))

	message := &gmail.Message{Raw: encoded}

	sent, err := m.service.Users.Messages.Send(m.userEmail, message).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return sent.Id, nil
}

// buildMessage assembles an RFC 822 message with an HTML body
func (m *GmailMailer) buildMessage(to, subject, htmlBody string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("From: %s\r\n", m.userEmail))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	b.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 7bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	return b.String()
}

// TestConnection tests the Gmail API connection
func (m *GmailMailer) TestConnection(ctx context.Context) error {
	_, err := m.service.Users.GetProfile(m.userEmail).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to test Gmail API connection: %w", err)
	}
	return nil
}
