// Package resilience groups the fault tolerance helpers used by outbound
// calls. Calls are attempted once; a circuit breaker per dependency turns a
// sustained outage into fast failures that the pipeline absorbs as fallbacks
// or skipped sources.
//
//	cb := circuitbreaker.New(circuitbreaker.OpenAIAPIConfig())
//	text, err := circuitbreaker.Do(cb, func() (string, error) {
//	    return callProvider(ctx)
//	})
package resilience
