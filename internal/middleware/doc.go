// Package middleware provides HTTP middleware for the pose viewer service.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with path normalization
//   - Response compression (gzip) for API responses
//   - Configurable filtering for health checks
package middleware
