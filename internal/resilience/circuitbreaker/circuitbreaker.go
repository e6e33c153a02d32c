// Package circuitbreaker wraps sony/gobreaker for the outbound calls of a
// digest run. Breakers never retry; an open breaker fails fast so the caller
// can fall back or skip the source.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds the trip policy of one breaker.
type Config struct {
	// Name identifies the breaker in logs.
	Name string

	// MaxRequests is the number of probe calls allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period after which closed-state counts reset.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// FailureThreshold is the failure ratio (0.0 to 1.0) that trips the breaker.
	FailureThreshold float64

	// MinRequests is the sample size needed before the ratio is evaluated.
	MinRequests uint32
}

// DefaultConfig returns a moderate policy for an arbitrary dependency.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// FeedFetchConfig covers RSS and Atom downloads. Feeds fail independently, so
// the breaker only trips when most hosts are unreachable.
func FeedFetchConfig() Config {
	return Config{
		Name:             "feed-fetch",
		MaxRequests:      5,
		Interval:         60 * time.Second,
		Timeout:          120 * time.Second,
		FailureThreshold: 0.7,
		MinRequests:      10,
	}
}

// GDELTConfig covers the GDELT document API.
func GDELTConfig() Config {
	return Config{
		Name:             "gdelt-api",
		MaxRequests:      2,
		Interval:         60 * time.Second,
		Timeout:          120 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

func OpenAIAPIConfig() Config {
	return DefaultConfig("openai-api")
}

func ClaudeAPIConfig() Config {
	return DefaultConfig("claude-api")
}

func GeminiAPIConfig() Config {
	return DefaultConfig("gemini-api")
}

// ContentFetchConfig covers article downloads for summarizer input.
func ContentFetchConfig() Config {
	return Config{
		Name:             "content-fetch",
		MaxRequests:      5,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// BrevoAPIConfig covers the delivery API. A run sends at most two requests,
// so a single failure is enough to open the breaker for the rest of the run.
func BrevoAPIConfig() Config {
	return Config{
		Name:             "brevo-api",
		MaxRequests:      1,
		Interval:         0,
		Timeout:          5 * time.Minute,
		FailureThreshold: 1.0,
		MinRequests:      1,
	}
}

// CircuitBreaker is a named gobreaker instance.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a breaker from cfg. State changes are logged at warn level.
func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

// Execute runs fn through the breaker.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

// Do runs fn through cb and keeps the result type.
func Do[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := cb.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	v, _ := out.(T)
	return v, nil
}

func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

func (cb *CircuitBreaker) Name() string {
	return cb.name
}

func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

// IsRejected reports whether err means the breaker refused the call.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
