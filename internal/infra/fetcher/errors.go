package fetcher

import "errors"

var (
	// ErrInvalidURL is returned for unparsable URLs or non-http(s) schemes.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP is returned when a host resolves to a loopback, private or link-local address.
	ErrPrivateIP = errors.New("private IP address not allowed")

	ErrTooManyRedirects = errors.New("too many redirects")
	ErrBodyTooLarge     = errors.New("response body too large")
	ErrTimeout          = errors.New("content fetch timeout")

	// ErrReadabilityFailed is returned when no readable text could be extracted.
	ErrReadabilityFailed = errors.New("readability extraction failed")
)
