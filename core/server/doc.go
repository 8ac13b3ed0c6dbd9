// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines
// the configuration structure for the read-only view of the live library: the
// announced name, bind interface, port and optional API key.
package server
