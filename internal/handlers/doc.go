// Package handlers provides HTTP request handlers for the pose viewer API.
//
// It includes handlers for:
//   - Video upload and job creation
//   - Job status lookup
//   - Annotated video and poster retrieval
//   - Health checks and version info
package handlers
