package requester

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/brizzai/auto-jira/internal/config"
)

// ErrNoHost is returned when a hosted transport has no executor.
var ErrNoHost = errors.New("no host executor configured")

// HostExecutor is the request capability an embedding host provides. The
// host authenticates and routes the request; URLs are relative to the
// Jira site the host is bound to.
type HostExecutor interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// HostFunc adapts a function to HostExecutor.
type HostFunc func(ctx context.Context, req *Request) (*Response, error)

// Do calls f.
func (f HostFunc) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// HostTransport delegates execution to the embedding host and adds no
// credentials of its own.
type HostTransport struct {
	host HostExecutor
}

var _ Transport = (*HostTransport)(nil)

// NewHostTransport creates a hosted-mode transport.
func NewHostTransport(host HostExecutor) *HostTransport {
	return &HostTransport{host: host}
}

// Execute hands the request to the host.
func (t *HostTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	if t.host == nil {
		return nil, ErrNoHost
	}
	resp, err := t.host.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("host request failed: %w", err)
	}
	if resp == nil {
		return nil, errors.New("host returned no response")
	}
	return resp, nil
}

// ProxyHost is a HostExecutor for hosts that expose a local egress proxy.
// The proxy injects credentials; ProxyHost only adds the host headers it was
// configured with (typically an invocation token).
type ProxyHost struct {
	client   *http.Client
	proxyURL string
	headers  map[string]string
}

// NewProxyHost creates a ProxyHost from the hosted-mode configuration.
func NewProxyHost(host *config.HostConfig) (*ProxyHost, error) {
	proxyURL, err := normalizeBaseURL(host.ProxyURL)
	if err != nil {
		return nil, err
	}
	timeout, err := host.RequestTimeout()
	if err != nil {
		return nil, err
	}
	return &ProxyHost{
		client:   &http.Client{Timeout: timeout},
		proxyURL: proxyURL,
		headers:  host.Headers,
	}, nil
}

// Do forwards the request to the proxy.
func (p *ProxyHost) Do(ctx context.Context, req *Request) (*Response, error) {
	return doHTTP(ctx, p.client, p.proxyURL+req.URL, req, func(httpReq *http.Request) error {
		for key, value := range p.headers {
			httpReq.Header.Set(key, value)
		}
		return nil
	})
}

// NewTransport builds the transport for the configured mode.
func NewTransport(cfg *config.Config) (Transport, error) {
	switch cfg.Mode {
	case config.ModeDirect, "":
		transport, err := NewHTTPTransport(&cfg.Endpoint, NewHTTPAuthManager(&cfg.Endpoint))
		if err != nil {
			return nil, err
		}
		return transport, nil
	case config.ModeHosted:
		host, err := NewProxyHost(&cfg.Host)
		if err != nil {
			return nil, err
		}
		return NewHostTransport(host), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownMode, cfg.Mode)
	}
}
