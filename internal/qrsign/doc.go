// Package qrsign defines the wire-level API of the QR signing service: the
// request/response DTOs exchanged with mobile signing clients and the
// localized error responses.
//
// The package owns the mapping from the internal error taxonomy
// (sign.Error codes and reasons) to HTTP status codes and to the ru/kk
// display strings clients show to end users. Handlers never build error
// bodies themselves; they call RespondWithError and let this package pick
// the status and the message for the request's locale.
//
// JSON field names follow the established mobile-client contract
// (snake_case for auth and expiry fields, camelCase elsewhere) and must not
// be changed without coordinating a client release.
package qrsign
