// Package server provides the HTTP server for the QR signing service.
//
// The server is configured through environment variables
// (see app/internal/config/config.go for details).
//
// Routes:
//   - the /api/v1 signing endpoints (mgovSign, egov-api1, sign-process)
//   - common infrastructure endpoints (health, ready, version)
//
// Middleware is in app/internal/server/middleware.
package server
