// package sign holds the domain model of a QR signing transaction: the
// document bundle submitted for signing, the closed sign-method/status/auth
// enumerations, structural bundle validation, and the BIN (business
// identification number) format rules.
//
// **bundle**
// A bundle is the ordered set of documents handed to the signing device.
// The bundle-level signMethod applies to every document unless it is
// MIX_SIGN, in which case each document carries its own method.
//
// **status**
// A transaction starts PENDING and moves exactly once to SIGNED or FAILED.
// Both are terminal; the state machine is encoded in Status.CanTransitionTo
// and enforced by the store's conditional terminal update.
//
// **error handling**
// The package error type carries a machine error code (mapped to an HTTP
// status by the qrsign package) and an enumerated rejection reason (mapped
// to localized display strings). Wrapped causes stay available via
// errors.As/errors.Is for the handlers.
package sign
