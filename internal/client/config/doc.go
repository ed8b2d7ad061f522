// Package config loads runtime configuration for the fileshare CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally seeded from a .env file (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-i int      session poll interval (seconds)
//	-d string   SQLite DSN for the local state database
//	-o string   directory for saved downloads
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "http://localhost:8080/api",
//	  "poll_interval": "3s",
//	  "database_dsn": "fileshare.db",
//	  "download_dir": "downloads"
//	}
//
// Environment variables
//
//	SERVER_ENDPOINT_ADDR, POLL_INTERVAL (duration string), DATABASE_DSN,
//	DOWNLOAD_DIR
package config
