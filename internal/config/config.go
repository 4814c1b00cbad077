package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default values for connection fields.
const (
	DefaultHost           = "localhost"
	DefaultPort           = 5432
	DefaultUser           = "postgres"
	DefaultDatabase       = "postgres"
	DefaultSSLMode        = "prefer"
	DefaultConnectTimeout = 10 * time.Second
)

// Config holds the runtime configuration assembled from defaults,
// environment, and flags.
type Config struct {
	Connection ConnectionParams
	Layout     Layout
	Verbose    bool
}

// ConnectionParams identifies the target database. It is fixed for the
// lifetime of a run.
type ConnectionParams struct {
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	SSLMode        string
	ConnectTimeout time.Duration
}

// New returns a Config populated with default values. The layout is
// derived from the location of the running executable.
func New() *Config {
	return &Config{
		Connection: ConnectionParams{
			Host:           DefaultHost,
			Port:           DefaultPort,
			User:           DefaultUser,
			Database:       DefaultDatabase,
			SSLMode:        DefaultSSLMode,
			ConnectTimeout: DefaultConnectTimeout,
		},
		Layout: NewLayout(DefaultProjectRoot()),
	}
}

// MergeEnv overrides config fields from DB_* and RUNSCRIPTS_* environment
// variables. Malformed numeric values leave the current value in place.
func MergeEnv(cfg *Config) {
	c := &cfg.Connection

	if v := os.Getenv("DB_HOST"); v != "" {
		c.Host = v
	}

	if v := os.Getenv("DB_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Port = n
		}
	}

	if v := os.Getenv("DB_USER"); v != "" {
		c.User = v
	}

	if v := os.Getenv("PGPASSWORD"); v != "" {
		c.Password = v
	}

	if v := os.Getenv("DB_PASS"); v != "" {
		c.Password = v
	}

	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database = v
	}

	if v := os.Getenv("DB_SSLMODE"); v != "" {
		c.SSLMode = v
	}

	if v := os.Getenv("DB_CONNECT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.ConnectTimeout = d
		}
	}

	mergeLayoutEnv(&cfg.Layout)
}

// Validate reports every required connection field that is empty.
func (p *ConnectionParams) Validate() error {
	var missing []string

	if p.Host == "" {
		missing = append(missing, "DB_HOST")
	}

	if p.User == "" {
		missing = append(missing, "DB_USER")
	}

	if p.Password == "" {
		missing = append(missing, "DB_PASS")
	}

	if p.Database == "" {
		missing = append(missing, "DB_NAME")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConnectionParams, strings.Join(missing, ", "))
	}

	if p.Port <= 0 || p.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, p.Port)
	}

	return nil
}

// URL renders the parameters as a postgres:// connection string.
func (p *ConnectionParams) URL() string {
	q := url.Values{}

	if p.SSLMode != "" {
		q.Set("sslmode", p.SSLMode)
	}

	if p.ConnectTimeout > 0 {
		secs := int(p.ConnectTimeout.Round(time.Second) / time.Second)
		if secs < 1 {
			secs = 1
		}

		q.Set("connect_timeout", strconv.Itoa(secs))
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     "/" + p.Database,
		RawQuery: q.Encode(),
	}

	return u.String()
}

// Redacted is URL with the password masked, safe for console output.
func (p *ConnectionParams) Redacted() string {
	return RedactURL(p.URL())
}
