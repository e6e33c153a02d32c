package mailer

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"daily-brief/internal/usecase/digest"
)

var (
	// ErrMissingCredentials marks a configuration that cannot deliver.
	ErrMissingCredentials = errors.New("mailer: missing credentials")

	// ErrSendSkipped is returned by SkipSender.
	ErrSendSkipped = digest.ErrDeliverySkipped
)

// RateLimitError represents a 429 from the delivery API.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError represents a 4xx other than 429.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError represents a 5xx.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// classifyResponse maps a non-2xx response to a typed error. It returns nil for 2xx.
func classifyResponse(op string, resp *http.Response, body []byte) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Message:    fmt.Sprintf("brevo %s rate limited", op),
			RetryAfter: retryAfter(resp),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("brevo %s client error %d: %s", op, resp.StatusCode, string(body)),
		}
	case resp.StatusCode >= 500:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("brevo %s server error %d: %s", op, resp.StatusCode, string(body)),
		}
	}
	return fmt.Errorf("brevo %s unexpected status %d: %s", op, resp.StatusCode, string(body))
}

func retryAfter(resp *http.Response) time.Duration {
	if h := resp.Header.Get("Retry-After"); h != "" {
		if seconds, err := strconv.Atoi(h); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 0
}

// Status buckets an error for metrics and logs.
func Status(err error) string {
	var (
		rateLimitErr *RateLimitError
		clientErr    *ClientError
		serverErr    *ServerError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &rateLimitErr):
		return "rate_limited"
	case errors.As(err, &clientErr):
		return "client_error"
	case errors.As(err, &serverErr):
		return "server_error"
	default:
		return "network_error"
	}
}
