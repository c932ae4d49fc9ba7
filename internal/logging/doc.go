// Package logging provides leveled logging for the application.
//
// The level is controlled by the LOG_LEVEL environment variable
// (debug, info, warn, error) or by setting DEBUG=true, and defaults
// to info.
package logging
