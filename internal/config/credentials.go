package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Keys read from endpoint.auth_config when the secret lives in the OS keyring.
const (
	KeyringServiceKey = "keyring_service"
	KeyringUserKey    = "keyring_user"
)

// ErrCredentialNotFound is returned when the keyring has no entry for the configured user.
var ErrCredentialNotFound = errors.New("credential not found in keyring")

// secretKey is the auth_config entry each auth type expects its secret under.
func secretKey(authType AuthType) string {
	switch authType {
	case AuthTypeBasic:
		return "password"
	case AuthTypeAPIKey:
		return "key"
	case AuthTypeBearer, AuthTypeOAuth2:
		return "token"
	default:
		return ""
	}
}

// ResolveCredentials fills the secret for the configured auth type from the
// OS keyring when auth_config names a keyring service and the secret is empty.
func ResolveCredentials(endpoint *EndpointConfig) error {
	service := endpoint.AuthConfig[KeyringServiceKey]
	if service == "" {
		return nil
	}
	key := secretKey(endpoint.AuthType)
	if key == "" || endpoint.AuthConfig[key] != "" {
		return nil
	}

	user := endpoint.AuthConfig[KeyringUserKey]
	if user == "" {
		user = endpoint.AuthConfig["username"]
	}

	secret, err := keyring.Get(service, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w: service %q user %q", ErrCredentialNotFound, service, user)
		}
		return fmt.Errorf("failed to read keyring: %w", err)
	}

	resolved := make(map[string]string, len(endpoint.AuthConfig)+1)
	for k, v := range endpoint.AuthConfig {
		resolved[k] = v
	}
	resolved[key] = secret
	endpoint.AuthConfig = resolved
	return nil
}

// StoreCredential saves a secret for later use by ResolveCredentials.
func StoreCredential(service, user, secret string) error {
	if err := keyring.Set(service, user, secret); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}
