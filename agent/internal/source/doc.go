// Package source abstracts where analytics payloads come from. The Provider
// interface is the Metrics Source contract; the HTTP implementation talks to
// the analytics API with retries and a circuit breaker, and the mock
// implementation serves a static dataset for offline fallback. Every failure
// path surfaces as ErrSourceUnavailable so callers can decide whether to
// fall back or abort.
package source
