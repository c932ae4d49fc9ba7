// Package database persists overlay job records in SQLite so job state
// survives restarts and can be polled over the API.
package database
