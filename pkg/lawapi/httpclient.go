package lawapi

import (
	"net/http"

	"golang.org/x/time/rate"
)

// HTTPClient is an interface matching the Do method of *http.Client.
// This allows injection of mock clients for testing and custom transports.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultRequestsPerSecond and DefaultBurst bound outbound traffic to the
// DRF servers.
const (
	DefaultRequestsPerSecond = 5.0
	DefaultBurst             = 5
)

// RateLimitedHTTPClient wraps an HTTPClient with a token-bucket limiter.
// Waiting honors the request context, so a cancelled lookup does not sit in
// the queue.
type RateLimitedHTTPClient struct {
	underlying HTTPClient
	limiter    *rate.Limiter
}

// NewRateLimitedHTTPClient creates a rate-limited HTTP client. A
// non-positive requestsPerSecond disables limiting.
func NewRateLimitedHTTPClient(underlying HTTPClient, requestsPerSecond float64, burst int) *RateLimitedHTTPClient {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedHTTPClient{
		underlying: underlying,
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// Do executes an HTTP request, waiting for the rate limiter before sending.
func (rateLimitedClient *RateLimitedHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if err := rateLimitedClient.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return rateLimitedClient.underlying.Do(req)
}
