package mailer

import (
	"fmt"
	"net/mail"
	"time"
)

// Delivery modes accepted by DELIVERY_MODE.
const (
	ModeTransactional = "transactional"
	ModeCampaign      = "campaign"
)

const (
	DefaultBaseURL        = "https://api.brevo.com"
	DefaultSenderName     = "Daily ERP Brief"
	DefaultSenderEmail    = "no-reply@example.com"
	DefaultUnsubscribeURL = "https://example.com/unsubscribe"
)

// Config holds the Brevo delivery settings.
type Config struct {
	APIKey  string
	BaseURL string
	Mode    string

	// Recipients is used in transactional mode.
	Recipients []string
	// ListID is used in campaign mode.
	ListID int64

	SenderName     string
	SenderEmail    string
	UnsubscribeURL string

	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Mode:           ModeTransactional,
		SenderName:     DefaultSenderName,
		SenderEmail:    DefaultSenderEmail,
		UnsubscribeURL: DefaultUnsubscribeURL,
		Timeout:        60 * time.Second,
	}
}

// Validate checks the settings that do not depend on credentials being present.
func (c Config) Validate() error {
	if c.Mode != ModeTransactional && c.Mode != ModeCampaign {
		return fmt.Errorf("unknown delivery mode %q", c.Mode)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if _, err := mail.ParseAddress(c.SenderEmail); err != nil {
		return fmt.Errorf("invalid sender email %q: %w", c.SenderEmail, err)
	}
	if c.ListID < 0 {
		return fmt.Errorf("list id must not be negative, got %d", c.ListID)
	}
	return nil
}

// missing names what prevents delivery, or returns "" when the config can send.
func (c Config) missing() string {
	switch {
	case c.APIKey == "":
		return "BREVO_API_KEY"
	case c.Mode == ModeTransactional && len(c.Recipients) == 0:
		return "RECIPIENTS"
	case c.Mode == ModeCampaign && c.ListID == 0:
		return "BREVO_LIST_ID"
	}
	return ""
}
