// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and integrates with the Fiber web framework that
// serves the live library view.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches it
// to the log entry, so all logs related to a specific request can be
// correlated. WithRemote tags a logger with the remote connection a
// synchronization pass works on.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Synchronizer started")
//
//	l := logger.WithRemote(log, "home", 1)
//	l.Error("Pass failed", zap.Error(err))
package logger
