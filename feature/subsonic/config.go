package subsonic

import (
	"fmt"
	"net/url"
)

const (
	// DefaultAPIVersion is the REST API version announced to the server.
	DefaultAPIVersion = "1.13.0"
	// DefaultClientName identifies this program to the server.
	DefaultClientName = "subdaap-sync"
	// DefaultTimeoutSeconds bounds every remote request.
	DefaultTimeoutSeconds = 30
)

// Config describes one remote catalog connection.
type Config struct {
	// Index identifies the connection and its local database. Must be >= 1.
	Index int `mapstructure:"index"`
	// Name is the display name of the catalog.
	Name string `mapstructure:"name"`
	// URL is the base URL of the server, without the /rest suffix.
	URL string `mapstructure:"url"`
	// Username for authentication.
	Username string `mapstructure:"username"`
	// Password for authentication.
	Password string `mapstructure:"password"`
	// APIVersion is the REST API version to announce.
	APIVersion string `mapstructure:"api_version"`
	// ClientName identifies this program.
	ClientName string `mapstructure:"client_name"`
	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// WithDefaults returns a copy of c with empty optional fields filled in.
func (c Config) WithDefaults() Config {
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.ClientName == "" {
		c.ClientName = DefaultClientName
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Name == "" {
		c.Name = fmt.Sprintf("remote-%d", c.Index)
	}
	return c
}

// Validate checks that the connection can be used.
func (c Config) Validate() error {
	if c.Index < 1 {
		return fmt.Errorf("remote %q: index must be >= 1, got %d", c.Name, c.Index)
	}
	if c.URL == "" {
		return fmt.Errorf("remote %q: url is required", c.Name)
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("remote %q: invalid url %q", c.Name, c.URL)
	}
	return nil
}
