// Package handlers provides the HTTP handlers for the signing API
// (transaction creation, metadata, sign-process) and the general
// infrastructure endpoints (health, readiness, version).
//
// Handlers decode and encode DTOs from internal/qrsign and delegate all
// business decisions to the service layer; errors come back as sign.Error
// values and are rendered by qrsign.RespondWithError.
package handlers
