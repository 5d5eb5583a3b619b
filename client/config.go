package client

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config groups the connection settings. Values are taken from environment
// variables with the prefix "RANCHER_". Example:
// RANCHER_URL=https://rancher.example.com/v3 RANCHER_ACCESS_KEY=token-abc12 .
type Config struct {
	URL         string        `envconfig:"URL"          required:"true"`
	AccessKey   string        `envconfig:"ACCESS_KEY"   required:"true"`
	SecretKey   string        `envconfig:"SECRET_KEY"   required:"true"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	Debug       bool          `envconfig:"DEBUG"        default:"false"`
}

// LoadConfig populates Config from environment variables (prefix RANCHER_).
// envconfig accepts a required variable that is set but empty, so the
// required keys are also checked for content here.
func LoadConfig() (Config, error) {
	var c Config
	if err := envconfig.Process("RANCHER", &c); err != nil {
		return Config{}, err
	}
	for key, v := range map[string]string{"URL": c.URL, "ACCESS_KEY": c.AccessKey, "SECRET_KEY": c.SecretKey} {
		if v == "" {
			return Config{}, fmt.Errorf("required key RANCHER_%s is empty", key)
		}
	}
	return c, nil
}

// NewFromConfig builds a Client from cfg. opts are applied first, so the
// timeout and debug settings of cfg also hold for a client given through
// WithHTTPClient.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	all := make([]Option, 0, len(opts)+2)
	all = append(all, opts...)
	if cfg.HTTPTimeout > 0 {
		all = append(all, WithHTTPTimeout(cfg.HTTPTimeout))
	}
	if cfg.Debug {
		all = append(all, WithDebugLogging(true))
	}
	return New(cfg.URL, cfg.AccessKey, cfg.SecretKey, all...)
}

// NewFromEnv is LoadConfig followed by NewFromConfig.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg, opts...)
}
