package requester

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/brizzai/auto-jira/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrOAuth2NotConfigured is returned when oauth2 auth has neither a token nor client credentials.
var ErrOAuth2NotConfigured = errors.New("oauth2 auth requires a token or client_id, client_secret and token_url")

// AuthManager handles request authentication
type AuthManager interface {
	ApplyAuth(req *http.Request) error
}

// HTTPAuthManager implements the AuthManager interface
type HTTPAuthManager struct {
	authType   config.AuthType
	authConfig map[string]string

	// oauth2: a fixed token, or client credentials with a cached token
	staticToken *oauth2.Token
	credentials *clientcredentials.Config
	mu          sync.Mutex
	token       *oauth2.Token
}

// NewHTTPAuthManager creates a new HTTPAuthManager
func NewHTTPAuthManager(endpoint *config.EndpointConfig) *HTTPAuthManager {
	m := &HTTPAuthManager{
		authType:   endpoint.AuthType,
		authConfig: endpoint.AuthConfig,
	}
	if m.authType == config.AuthTypeOAuth2 {
		m.staticToken, m.credentials = oauth2Config(endpoint.AuthConfig)
	}
	return m
}

// oauth2Config prefers a fixed access token and falls back to the client
// credentials grant.
func oauth2Config(cfg map[string]string) (*oauth2.Token, *clientcredentials.Config) {
	if token := cfg["token"]; token != "" {
		return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
	}
	if cfg["client_id"] == "" || cfg["client_secret"] == "" || cfg["token_url"] == "" {
		return nil, nil
	}
	cc := &clientcredentials.Config{
		ClientID:     cfg["client_id"],
		ClientSecret: cfg["client_secret"],
		TokenURL:     cfg["token_url"],
	}
	if scopes := strings.TrimSpace(cfg["scopes"]); scopes != "" {
		cc.Scopes = strings.Fields(strings.ReplaceAll(scopes, ",", " "))
	}
	return nil, cc
}

// oauth2Token returns the cached token, fetching a new one under ctx once it
// has expired.
func (a *HTTPAuthManager) oauth2Token(ctx context.Context) (*oauth2.Token, error) {
	if a.staticToken != nil {
		return a.staticToken, nil
	}
	if a.credentials == nil {
		return nil, ErrOAuth2NotConfigured
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token.Valid() {
		return a.token, nil
	}
	token, err := a.credentials.Token(ctx)
	if err != nil {
		return nil, err
	}
	a.token = token
	return token, nil
}

// ApplyAuth adds authentication to the request. Token fetches use the
// request's context.
func (a *HTTPAuthManager) ApplyAuth(req *http.Request) error {
	switch a.authType {
	case config.AuthTypeNone, "":
		return nil
	case config.AuthTypeBasic:
		req.SetBasicAuth(a.authConfig["username"], a.authConfig["password"])
	case config.AuthTypeBearer:
		req.Header.Set("Authorization", "Bearer "+a.authConfig["token"])
	case config.AuthTypeAPIKey:
		header := a.authConfig["header"]
		if header == "" {
			header = "X-API-Key"
		}
		req.Header.Set(header, a.authConfig["key"])
	case config.AuthTypeOAuth2:
		token, err := a.oauth2Token(req.Context())
		if errors.Is(err, ErrOAuth2NotConfigured) {
			return err
		}
		if err != nil {
			return fmt.Errorf("failed to obtain oauth2 token: %w", err)
		}
		token.SetAuthHeader(req)
	default:
		return fmt.Errorf("unsupported auth type: %s", a.authType)
	}
	return nil
}
