// Package middleware groups the HTTP middleware of the Fiber application.
//
// # Components
//
//   - auth: API key validation for every route when server.api_key is set.
//   - rayid: assigns each request a ray id, stored in the context locals and
//     echoed in the X-Ray-ID response header for tracing.
//
// Register rayid first so that every later log line carries the id.
package middleware
