package config

import (
	"fmt"
	"strings"

	yamlenv "github.com/ifuryst/go-yaml-env"

	"github.com/deviro/influencer-post-tracker/pkg/logger"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Backend   BackendConfig   `yaml:"backend"`
	Logger    logger.Config   `yaml:"logger"`
	Refresher RefresherConfig `yaml:"refresher"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	Host     string `yaml:"host"`
	Mode     string `yaml:"mode"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// BackendConfig selects how the persistence gateway reaches the data
// service: "rest" talks to the hosted row-level REST API, "postgres"
// connects straight to a database.
type BackendConfig struct {
	Mode     string         `yaml:"mode"`
	REST     RESTConfig     `yaml:"rest"`
	Database DatabaseConfig `yaml:"database"`
}

const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
)

type RESTConfig struct {
	URL     string `yaml:"url"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	TimeZone string `yaml:"timezone"`
}

type RefresherConfig struct {
	Interval string `yaml:"interval"`
	Enabled  bool   `yaml:"enabled"`
}

func LoadConfig(configPath string) (*Config, error) {
	cfg, err := yamlenv.LoadConfig[Config](configPath)
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5341
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Backend.Mode == "" {
		c.Backend.Mode = BackendREST
	}
	if c.Backend.REST.Timeout == "" {
		c.Backend.REST.Timeout = "30s"
	}
	if c.Backend.Database.Host == "" {
		c.Backend.Database.Host = "localhost"
	}
	if c.Backend.Database.Port == 0 {
		c.Backend.Database.Port = 5432
	}
	if c.Backend.Database.SSLMode == "" {
		c.Backend.Database.SSLMode = "disable"
	}
	if c.Backend.Database.TimeZone == "" {
		c.Backend.Database.TimeZone = "UTC"
	}
	if c.Refresher.Interval == "" {
		c.Refresher.Interval = "15m"
	}
}

// Validate fails fast on an unusable backend configuration so the store
// never runs against an undefined data service. Missing credentials produce
// a setup message rather than a generic error.
func (c *Config) Validate() error {
	switch c.Backend.Mode {
	case BackendREST:
		var missing []string
		if c.Backend.REST.URL == "" {
			missing = append(missing, "backend.rest.url (env BACKEND_REST_URL)")
		}
		if c.Backend.REST.APIKey == "" {
			missing = append(missing, "backend.rest.api_key (env BACKEND_REST_API_KEY)")
		}
		if len(missing) > 0 {
			return fmt.Errorf(
				"missing backend credentials: %s\n\n"+
					"To fix this:\n"+
					"  1. Open your config file (or set the environment variables)\n"+
					"  2. Fill in the project URL and the service API key from your data-service dashboard:\n"+
					"     backend:\n"+
					"       rest:\n"+
					"         url: https://your-project-ref.example.co\n"+
					"         api_key: your-api-key-here",
				strings.Join(missing, ", "))
		}
	case BackendPostgres:
		if c.Backend.Database.Database == "" {
			return fmt.Errorf("backend.database.database is required when backend.mode is %q", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown backend mode %q (expected %q or %q)", c.Backend.Mode, BackendREST, BackendPostgres)
	}
	return nil
}
