package apierr

import (
	"errors"
	"io"
	"net/http"
	"syscall"
)

// IsRetryable says "worth another shot?". unitx never retries by itself;
// this is for callers that wrap calls in their own retry policy.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// timeouts from net/http, http2, tls, context deadlines
	var to interface{ Timeout() bool }
	if errors.As(err, &to) && to.Timeout() {
		return true
	}

	// flaky connections / short reads
	if errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	// server returned non-2xx
	if ae, ok := As(err); ok {
		return isRetryableStatus(ae.Status)
	}
	return false
}

// IsRateLimited reports a 429 from the API.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

// IsNotFound reports a 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports a 401 from the API, usually a revoked or
// mistyped token.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

func hasStatus(err error, status int) bool {
	ae, ok := As(err)
	if !ok {
		return false
	}
	if ae.Status == status {
		return true
	}
	for _, e := range ae.Errors {
		if e.Status == status {
			return true
		}
	}
	return false
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, // 408
		http.StatusTooEarly,            // 425
		http.StatusTooManyRequests,     // 429
		http.StatusInternalServerError, // 500
		http.StatusBadGateway,          // 502
		http.StatusServiceUnavailable,  // 503
		http.StatusGatewayTimeout:      // 504
		return true
	}
	return false
}
