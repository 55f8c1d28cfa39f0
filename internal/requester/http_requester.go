package requester

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brizzai/auto-jira/internal/config"
)

// ErrInvalidBaseURL is returned when a transport's base URL is not absolute.
var ErrInvalidBaseURL = errors.New("base URL must be an absolute http(s) URL")

// HTTPTransport sends requests straight to Jira with configured credentials.
type HTTPTransport struct {
	client   *http.Client
	baseURL  string
	defaults map[string]string
	authMgr  AuthManager
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a direct-mode transport for the endpoint.
func NewHTTPTransport(endpoint *config.EndpointConfig, authMgr AuthManager) (*HTTPTransport, error) {
	baseURL, err := normalizeBaseURL(endpoint.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout, err := endpoint.RequestTimeout()
	if err != nil {
		return nil, err
	}
	return &HTTPTransport{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:  baseURL,
		defaults: endpoint.Headers,
		authMgr:  authMgr,
	}, nil
}

// SetTimeout sets the timeout for the HTTP client
func (t *HTTPTransport) SetTimeout(timeout time.Duration) {
	t.client.Timeout = timeout
}

// Execute applies endpoint headers and authentication, then the request's
// own headers, and performs the call.
func (t *HTTPTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	return doHTTP(ctx, t.client, t.baseURL+req.URL, req, func(httpReq *http.Request) error {
		for key, value := range t.defaults {
			httpReq.Header.Set(key, value)
		}
		if t.authMgr == nil {
			return nil
		}
		if err := t.authMgr.ApplyAuth(httpReq); err != nil {
			return fmt.Errorf("failed to apply authentication: %w", err)
		}
		return nil
	})
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}
	return strings.TrimRight(trimmed, "/"), nil
}

// doHTTP executes req against fullURL. prepare runs before the request's
// headers are copied, so request headers override whatever it sets.
func doHTTP(ctx context.Context, client *http.Client, fullURL string, req *Request, prepare func(*http.Request) error) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	if prepare != nil {
		if err := prepare(httpReq); err != nil {
			return nil, err
		}
	}
	for key, values := range req.Headers {
		httpReq.Header[key] = append([]string(nil), values...)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       bodyBytes,
		Headers:    resp.Header,
	}, nil
}
