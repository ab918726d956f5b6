// Package config loads runtime configuration for the DocuDefense CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend (http://localhost:8000)
//	-d string   local SQLite database path
//	-o string   download directory
//	-l int      users per directory page
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-s string   user search endpoint path
//	-v string   log level
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "5s"
// or integer nanoseconds. Keys that are absent keep their previous value:
//
//	{
//	  "base_url": "http://localhost:8000",
//	  "database_path": "docudefense.db",
//	  "download_dir": "downloads",
//	  "page_size": 10,
//	  "request_timeout": "10s",
//	  "online_check_interval": "5s",
//	  "search_path": "/users/search",
//	  "log_level": "info"
//	}
//
// This package does not read environment variables; use the JSON file or
// flags to configure values.
package config
