// Package app is the composition root for secondbrain.
//
// newSession wires the pieces in order:
//
//	config.Load()      TOML file, .env, environment
//	applyOverrides()   -base-url and -timeout flags win over everything
//	logging.New()      tint handler on a lumberjack-rotated file
//	brain.NewClient()  HTTP client for POST <base_url>/query
//	state.New()        request lifecycle, logging through the same logger
//
// Run hands the lifecycle to the Bubble Tea UI and blocks until the user
// quits or the context is cancelled. Ask pushes a single question through the
// same lifecycle for scripts and returns a process exit code: 0 with the
// answer on stdout, 1 with the failure message on stderr, 2 for a blank
// question.
//
// Only setup problems are returned as errors: an unreadable config file, an
// unparsable timeout, or a log directory that cannot be created. Request
// failures never escape the lifecycle; they become its Error state.
package app
