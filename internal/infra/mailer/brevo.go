// Package mailer delivers rendered editions through the Brevo API.
//
// Two modes exist: transactional sends to an explicit recipient list, and
// campaign mode creates a list-targeted campaign and dispatches it at once.
// Every request is a single attempt paced by a rate limiter and guarded by
// a circuit breaker; failures are classified and returned, never retried.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"daily-brief/internal/observability/metrics"
	"daily-brief/internal/resilience/circuitbreaker"
	"daily-brief/internal/usecase/digest"
)

const maxErrorBody = 4096

// client is the shared HTTP plumbing of both senders.
type client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *RateLimiter
	cb          *circuitbreaker.CircuitBreaker
	logger      *slog.Logger
}

func newClient(cfg Config, logger *slog.Logger) *client {
	if logger == nil {
		logger = slog.Default()
	}
	return &client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		rateLimiter: NewRateLimiter(2.0, 2),
		cb:          circuitbreaker.New(circuitbreaker.BrevoAPIConfig()),
		logger:      logger,
	}
}

// post sends payload as JSON and decodes a 2xx body into out when out is non-nil.
func (c *client) post(ctx context.Context, op, path string, payload, out any) error {
	if err := c.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	_, err := circuitbreaker.Do(c.cb, func() (struct{}, error) {
		return struct{}{}, c.doPost(ctx, op, path, payload, out)
	})
	return err
}

func (c *client) doPost(ctx context.Context, op, path string, payload, out any) error {
	var reader io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("brevo %s request: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return classifyResponse(op, resp, body)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

type contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type transactionalPayload struct {
	Sender      contact           `json:"sender"`
	To          []contact         `json:"to"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Headers     map[string]string `json:"headers,omitempty"`
}

// TransactionalSender sends one email to every configured recipient.
type TransactionalSender struct {
	client *client
	config Config
}

func NewTransactionalSender(cfg Config, logger *slog.Logger) *TransactionalSender {
	return &TransactionalSender{client: newClient(cfg, logger), config: cfg}
}

// Send posts the message to /v3/smtp/email with List-Unsubscribe headers.
func (s *TransactionalSender) Send(ctx context.Context, msg digest.Message) error {
	requestID := uuid.New().String()

	to := make([]contact, 0, len(s.config.Recipients))
	for _, r := range s.config.Recipients {
		to = append(to, contact{Email: r})
	}
	payload := transactionalPayload{
		Sender:      contact{Name: s.config.SenderName, Email: s.config.SenderEmail},
		To:          to,
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
		Headers: map[string]string{
			"List-Unsubscribe":      "<" + s.config.UnsubscribeURL + ">",
			"List-Unsubscribe-Post": "List-Unsubscribe=One-Click",
		},
	}

	err := s.client.post(ctx, "smtp email", "/v3/smtp/email", payload, nil)
	metrics.RecordSend(ModeTransactional, Status(err))
	if err != nil {
		s.client.logger.ErrorContext(ctx, "transactional send failed",
			slog.String("request_id", requestID),
			slog.String("status", Status(err)),
			slog.Any("error", err))
		return fmt.Errorf("transactional send: %w", err)
	}

	s.client.logger.InfoContext(ctx, "transactional send accepted",
		slog.String("request_id", requestID),
		slog.Int("recipients", len(to)),
		slog.String("subject", msg.Subject))
	return nil
}

type campaignPayload struct {
	Name        string     `json:"name"`
	Subject     string     `json:"subject"`
	PreviewText string     `json:"previewText,omitempty"`
	Sender      contact    `json:"sender"`
	HTMLContent string     `json:"htmlContent"`
	Recipients  recipients `json:"recipients"`
}

type recipients struct {
	ListIDs []int64 `json:"listIds"`
}

type campaignCreated struct {
	ID int64 `json:"id"`
}

// CampaignSender creates a campaign for the configured list and sends it now.
type CampaignSender struct {
	client *client
	config Config
}

func NewCampaignSender(cfg Config, logger *slog.Logger) *CampaignSender {
	return &CampaignSender{client: newClient(cfg, logger), config: cfg}
}

// Send creates the campaign, then triggers /sendNow on it.
func (s *CampaignSender) Send(ctx context.Context, msg digest.Message) error {
	err := s.send(ctx, msg)
	metrics.RecordSend(ModeCampaign, Status(err))
	return err
}

func (s *CampaignSender) send(ctx context.Context, msg digest.Message) error {
	payload := campaignPayload{
		Name:        "Daily brief " + msg.ArchiveName,
		Subject:     msg.Subject,
		PreviewText: msg.PreviewText,
		Sender:      contact{Name: s.config.SenderName, Email: s.config.SenderEmail},
		HTMLContent: msg.HTML,
		Recipients:  recipients{ListIDs: []int64{s.config.ListID}},
	}

	var created campaignCreated
	if err := s.client.post(ctx, "create campaign", "/v3/emailCampaigns", payload, &created); err != nil {
		s.client.logger.ErrorContext(ctx, "campaign creation failed",
			slog.Int64("list_id", s.config.ListID),
			slog.Any("error", err))
		return fmt.Errorf("create campaign: %w", err)
	}
	if created.ID == 0 {
		return fmt.Errorf("create campaign: response carried no id")
	}

	path := fmt.Sprintf("/v3/emailCampaigns/%d/sendNow", created.ID)
	if err := s.client.post(ctx, "send campaign", path, nil, nil); err != nil {
		s.client.logger.ErrorContext(ctx, "campaign dispatch failed",
			slog.Int64("campaign_id", created.ID),
			slog.Any("error", err))
		return fmt.Errorf("send campaign %d: %w", created.ID, err)
	}

	s.client.logger.InfoContext(ctx, "campaign dispatched",
		slog.Int64("campaign_id", created.ID),
		slog.Int64("list_id", s.config.ListID),
		slog.String("subject", msg.Subject))
	return nil
}
