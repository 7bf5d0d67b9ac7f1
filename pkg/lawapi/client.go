package lawapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kimjonghyeok62/law-citation-search/pkg/citation"
)

const (
	// DefaultUserAgent is the User-Agent header sent with DRF requests.
	DefaultUserAgent = "law-citation-search/1.0"

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 15 * time.Second

	// minDirectBodyLength is the shortest direct response accepted before
	// the proxy is tried. Shorter bodies are error stubs.
	minDirectBodyLength = 30

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 8 << 20
)

var (
	// failPagePattern matches the DRF error pages served with status 200.
	failPagePattern = regexp.MustCompile(`페이지\s*접속에\s*실패하였습니다|사용자인증에\s*실패하였습니다|페이지를\s*찾을\s*수\s*없습니다`)

	proxyURLParam = regexp.MustCompile(`\burl=`)
)

// DefaultAliases maps commonly mistyped law names to the names to search
// for instead.
func DefaultAliases() map[string][]string {
	return map[string][]string{
		"영유아교육법": {"유아교육법", "영유아보육법"},
	}
}

// Config holds configuration for a Client.
type Config struct {
	// BaseURL is the DRF API root. Default: DefaultBaseURL.
	BaseURL string

	// OC is the DRF user key sent with every request.
	OC string

	// ProxyBase is a "?url=" style proxy tried when a direct request fails.
	// Empty disables the proxy.
	ProxyBase string

	// UserAgent is the User-Agent header. Default: DefaultUserAgent.
	UserAgent string

	// Timeout applies to the default HTTP client only. Default: 15 seconds.
	Timeout time.Duration

	// RequestsPerSecond and Burst configure the outbound rate limiter.
	RequestsPerSecond float64
	Burst             int

	// CacheTTL is the lifetime of cached law rows and articles.
	CacheTTL time.Duration

	// Aliases maps a canonical query to replacement queries tried first.
	Aliases map[string][]string

	// HTTPClient is the underlying HTTP client. If nil, an *http.Client with
	// Timeout is used. Either way it is wrapped with rate limiting.
	HTTPClient HTTPClient

	// Logger receives fallback and failure diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		UserAgent:         DefaultUserAgent,
		Timeout:           DefaultTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Burst:             DefaultBurst,
		CacheTTL:          DefaultCacheTTL,
		Aliases:           DefaultAliases(),
	}
}

// Client talks to the DRF API. It is safe for concurrent use.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	oc         string
	proxyBase  string
	userAgent  string
	aliases    map[string][]string
	logger     *zap.Logger

	lawCache     *Cache[LawRow]
	articleCache *Cache[Article]
}

// NewClient creates a Client with the given configuration.
func NewClient(config Config) *Client {
	underlyingClient := config.HTTPClient
	if underlyingClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		underlyingClient = &http.Client{Timeout: timeout}
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	aliases := make(map[string][]string, len(config.Aliases))
	for query, replacements := range config.Aliases {
		aliases[citation.CanonicalName(query)] = replacements
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient:   NewRateLimitedHTTPClient(underlyingClient, config.RequestsPerSecond, config.Burst),
		baseURL:      baseURL,
		oc:           config.OC,
		proxyBase:    strings.TrimSpace(config.ProxyBase),
		userAgent:    userAgent,
		aliases:      aliases,
		logger:       logger,
		lawCache:     NewCache[LawRow](config.CacheTTL),
		articleCache: NewCache[Article](config.CacheTTL),
	}
}

// FetchText GETs target directly and returns the body when it is longer than
// a bare error stub. Otherwise, if a proxy is configured, it retries through
// the proxy and returns whatever body that yields.
func (lawClient *Client) FetchText(ctx context.Context, target string) (string, error) {
	body, directErr := lawClient.get(ctx, target)
	if directErr == nil && len(body) > minDirectBodyLength {
		return body, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if lawClient.proxyBase == "" {
		if directErr != nil {
			return "", directErr
		}
		return "", fmt.Errorf("%w: %s", ErrEmptyResponse, target)
	}

	lawClient.logger.Debug("direct fetch failed, trying proxy",
		zap.String("url", target),
		zap.Int("body_length", len(body)),
		zap.Error(directErr),
	)

	proxied, proxyErr := lawClient.get(ctx, WithProxy(target, lawClient.proxyBase))
	if proxyErr != nil {
		return "", fmt.Errorf("fetch %s via proxy: %w", target, proxyErr)
	}
	if proxied == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyResponse, target)
	}
	return proxied, nil
}

func (lawClient *Client) get(ctx context.Context, target string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", target, err)
	}
	request.Header.Set("User-Agent", lawClient.userAgent)

	response, err := lawClient.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer response.Body.Close()

	data, err := io.ReadAll(io.LimitReader(response.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response from %s: %w", target, err)
	}
	if response.StatusCode >= 400 {
		return "", fmt.Errorf("%s returned HTTP %d", target, response.StatusCode)
	}
	return string(data), nil
}

// IsFailPage reports whether html is one of the DRF error pages.
func IsFailPage(html string) bool {
	return failPagePattern.MatchString(strings.ReplaceAll(html, "\u00a0", " "))
}
