package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("auto-jira version %s, commit %s, built at %s", version, commit, date)
}

// DefaultTimeout bounds a single request when endpoint.timeout is not set.
const DefaultTimeout = 30 * time.Second

var (
	// ErrMissingBaseURL is returned when direct mode has no endpoint.base_url.
	ErrMissingBaseURL = errors.New("endpoint.base_url is required in direct mode")
	// ErrMissingProxyURL is returned when hosted mode has no host.proxy_url.
	ErrMissingProxyURL = errors.New("host.proxy_url is required in hosted mode")
	// ErrUnknownMode is returned for a mode other than direct or hosted.
	ErrUnknownMode = errors.New("unknown mode")
)

type Config struct {
	Mode          Mode           `mapstructure:"mode"`
	Endpoint      EndpointConfig `mapstructure:"endpoint"`
	Host          HostConfig     `mapstructure:"host"`
	Logging       LoggingConfig  `mapstructure:"logging"`
	Server        ServerConfig   `mapstructure:"server"`
	OpenAPIFile   string         `mapstructure:"openapi_file"`
	SelectionFile string         `mapstructure:"selection_file"`
}

// Mode selects how requests reach Jira.
type Mode string

const (
	// ModeDirect talks to the Jira base URL with configured credentials.
	ModeDirect Mode = "direct"
	// ModeHosted hands requests to the embedding host, which owns authentication.
	ModeHosted Mode = "hosted"
)

// AuthType represents the type of authentication to use
type AuthType string

const (
	AuthTypeNone   AuthType = "none"
	AuthTypeBasic  AuthType = "basic"
	AuthTypeBearer AuthType = "bearer"
	AuthTypeAPIKey AuthType = "api_key"
	AuthTypeOAuth2 AuthType = "oauth2"
)

type EndpointConfig struct {
	BaseURL    string            `json:"base_url" mapstructure:"base_url"`
	AuthType   AuthType          `json:"auth_type" mapstructure:"auth_type"`
	AuthConfig map[string]string `json:"auth_config" mapstructure:"auth_config"`
	Headers    map[string]string `json:"headers" mapstructure:"headers"`
	Timeout    string            `json:"timeout" mapstructure:"timeout"`
}

// HostConfig describes the host-provided egress used in hosted mode.
type HostConfig struct {
	ProxyURL string            `mapstructure:"proxy_url"`
	Headers  map[string]string `mapstructure:"headers"`
	Timeout  string            `mapstructure:"timeout"`
}

// ServerTransport selects how the MCP server talks to its client.
type ServerTransport string

const (
	ServerTransportSTDIO ServerTransport = "stdio"
	ServerTransportHTTP  ServerTransport = "http"
)

type ServerConfig struct {
	Name      string          `mapstructure:"name"`
	Version   string          `mapstructure:"version"`
	Transport ServerTransport `mapstructure:"transport"`
	Address   string          `mapstructure:"address"`
	// AuthToken, when set, is required as a bearer token by the HTTP transport
	AuthToken string          `mapstructure:"auth_token"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	Color             bool   `mapstructure:"color"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

// RequestTimeout parses endpoint.timeout, falling back to DefaultTimeout.
func (e EndpointConfig) RequestTimeout() (time.Duration, error) {
	return parseTimeout(e.Timeout)
}

// RequestTimeout parses host.timeout, falling back to DefaultTimeout.
func (h HostConfig) RequestTimeout() (time.Duration, error) {
	return parseTimeout(h.Timeout)
}

func parseTimeout(raw string) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q: must be positive", raw)
	}
	return d, nil
}

// Validate checks that the selected mode has what it needs to build a transport.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDirect:
		if strings.TrimSpace(c.Endpoint.BaseURL) == "" {
			return ErrMissingBaseURL
		}
		if _, err := c.Endpoint.RequestTimeout(); err != nil {
			return fmt.Errorf("endpoint: %w", err)
		}
	case ModeHosted:
		if strings.TrimSpace(c.Host.ProxyURL) == "" {
			return ErrMissingProxyURL
		}
		if _, err := c.Host.RequestTimeout(); err != nil {
			return fmt.Errorf("host: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, c.Mode)
	}
	return nil
}

// InitFlags initializes command line flags (without parsing)
func InitFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to a config file (default ./config.yaml or /etc/auto-jira/config.yaml)")
	flags.String("mode", string(ModeDirect), "Request mode (direct|hosted)")
	flags.String("openapi-file", "", "Path to the Jira OpenAPI document")
	flags.String("selection-file", "", "Path to the route selection file")
	flags.String("base-url", "", "Jira base URL for direct mode")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", string(ModeDirect))
	v.SetDefault("endpoint.auth_type", string(AuthTypeNone))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("server.name", "Auto Jira")
	v.SetDefault("server.version", version)
	v.SetDefault("server.transport", string(ServerTransportSTDIO))
	v.SetDefault("server.address", ":8080")
}

// envKeys are bound explicitly so AUTO_JIRA_* variables apply even when no
// default, flag or file mentions the key.
var envKeys = []string{
	"mode",
	"openapi_file",
	"selection_file",
	"endpoint.base_url",
	"endpoint.auth_type",
	"endpoint.timeout",
	"endpoint.auth_config.username",
	"endpoint.auth_config.password",
	"endpoint.auth_config.token",
	"endpoint.auth_config.key",
	"endpoint.auth_config.header",
	"endpoint.auth_config.client_id",
	"endpoint.auth_config.client_secret",
	"endpoint.auth_config.token_url",
	"endpoint.auth_config.scopes",
	"endpoint.auth_config." + KeyringServiceKey,
	"endpoint.auth_config." + KeyringUserKey,
	"host.proxy_url",
	"host.timeout",
	"server.name",
	"server.version",
	"server.transport",
	"server.address",
	"server.auth_token",
	"logging.level",
	"logging.format",
	"logging.color",
	"logging.disable_stacktrace",
	"logging.output_path",
	"logging.append_to_file",
	"logging.disable_console",
}

func bindEnv(v *viper.Viper) error {
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

// Load reads configuration from config.yaml, AUTO_JIRA_* environment
// variables and the given flags, in increasing order of precedence.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AUTO_JIRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	explicit := ""
	if flags != nil {
		explicit, _ = flags.GetString("config")
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/auto-jira")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, everything can come from env and flags
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	//Loading additional config files
	if _, err := os.Stat("/config/config.yaml"); err == nil {
		v.SetConfigFile("/config/config.yaml")
		if err := v.MergeInConfig(); err != nil {
			return nil, err
		}
	}

	return decode(v)
}

// LoadFile reads configuration from a single explicit file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Flags use dashed names, the file uses nested keys
	if mode := v.GetString("mode"); mode != "" {
		config.Mode = Mode(mode)
	}
	if file := v.GetString("openapi-file"); file != "" {
		config.OpenAPIFile = file
	}
	if file := v.GetString("selection-file"); file != "" {
		config.SelectionFile = file
	}
	if baseURL := v.GetString("base-url"); baseURL != "" {
		config.Endpoint.BaseURL = baseURL
	}
	if level := v.GetString("log-level"); level != "" {
		config.Logging.Level = level
	}

	if err := ResolveCredentials(&config.Endpoint); err != nil {
		return nil, err
	}
	return &config, nil
}
