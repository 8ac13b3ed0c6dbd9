package server

import (
	"net"
	"strconv"
)

// Config holds configuration for the HTTP server exposing the live library.
type Config struct {
	// Name is the library name announced to clients.
	Name string `mapstructure:"name" default:"SubDaap"`
	// Interface is the address the server binds to.
	Interface string `mapstructure:"interface" default:"0.0.0.0"`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"3689"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
}

// IsValidPort checks if the configured port is a usable TCP port.
func (c Config) IsValidPort() bool {
	p, err := strconv.Atoi(c.Port)
	return err == nil && p >= 1 && p <= 65535
}

// Address returns the listen address.
func (c Config) Address() string {
	return net.JoinHostPort(c.Interface, c.Port)
}
