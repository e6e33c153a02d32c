package digest

import "errors"

// Sentinel errors for digest use case operations.
var (
	// ErrInsufficientItems indicates that fewer items than the configured minimum
	// survived filtering. Run treats it as a clean early exit, not a failure.
	ErrInsufficientItems = errors.New("not enough items to build a digest")

	// ErrUnknownSourceKind indicates that no reader is registered for a source kind.
	ErrUnknownSourceKind = errors.New("no reader registered for source kind")

	// ErrEmptySummary indicates that a summarizer returned no usable text.
	ErrEmptySummary = errors.New("summarizer returned empty summary")

	// ErrSummarizerDisabled marks items enriched by the disabled fallback.
	ErrSummarizerDisabled = errors.New("summarizer disabled")

	// ErrDeliverySkipped is returned by a Sender that is not configured to
	// deliver. Run records the edition as not sent and does not fail.
	ErrDeliverySkipped = errors.New("delivery skipped")
)
