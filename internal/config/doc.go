// Package config loads Second Brain client settings.
//
// # Resolution Order
//
// Later sources override earlier ones:
//
//  1. Built-in defaults
//  2. TOML file (explicit path, or ~/.config/secondbrain/config.toml)
//  3. .env in the working directory (loaded with godotenv; never overrides
//     variables already set in the process)
//  4. Environment variables (decoded with envdecode)
//
// Command-line flags are applied on top by the app package.
//
// # Fields
//
//	TOML        Environment                Default
//	base_url    SECONDBRAIN_API_BASE_URL   "" (VITE_API_BASE_URL is a fallback)
//	timeout     SECONDBRAIN_TIMEOUT        60s
//	log_level   SECONDBRAIN_LOG_LEVEL      info
//	log_dir     SECONDBRAIN_LOG_DIR        ~/.local/share/secondbrain/logs
//
// Example config.toml:
//
//	base_url = "http://localhost:8000"
//	timeout = "90s"
//	log_level = "debug"
//
// # Timeout
//
// timeout accepts a Go duration ("90s", "2m") or whole seconds ("90"). Zero
// or a negative value turns the request timeout off, which restores an
// unbounded wait for a hung service. Leave it set unless you need that.
//
// # Base URL
//
// The base URL is deliberately not validated here. An empty or malformed value
// makes every query fail at the transport level, and the failure shows up in
// the UI as an ordinary error message.
//
// # Error Handling
//
// Load returns errors for unreadable or unparsable config files, a .env file
// that cannot be read, and timeouts that do not parse. A missing config file
// or .env file is not an error.
package config
