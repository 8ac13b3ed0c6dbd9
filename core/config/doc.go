// Package config provides configuration management for the synchronizer.
//
// It utilizes Viper for loading configuration from environment variables, an
// optional .env file and an optional config.yaml. Scalar settings have
// defaults declared with `default` struct tags; the list of remote catalogs
// can only be declared in config.yaml.
//
// # Configuration Structure
//
//   - Server: HTTP view of the live library (name, interface, port, API key)
//   - Database: local store (sqlite file or MySQL server)
//   - Storage: S3/MinIO settings for the object-backed sync state
//   - Log: logging level and format
//   - Sync: pass interval, state backend, containers version mode
//   - Remotes: remote catalogs, one local database each
//
// # Example config.yaml
//
//	sync:
//	  interval: 30m
//	remotes:
//	  - index: 1
//	    name: Home
//	    url: https://music.example.org
//	    username: alice
//	    password: secret
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
