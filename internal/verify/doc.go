// Package verify talks to the external NCANode signature oracle and decides
// whether signed documents and auth proofs are valid.
//
// The package has three layers:
//
//   - Client: a long-lived HTTP client for the oracle's /cms/verify,
//     /xml/verify and /raw/verify endpoints, with capped exponential retry
//     on transient failures.
//   - BundleVerifier: per-document dispatch over a signed bundle, fail-fast
//     on the first invalid document.
//   - EdsAuthenticator: verification of a signed-XML auth proof, including
//     the endpoint-URL binding and the proof freshness window.
//
// The oracle's verdict is the document-level boolean "valid" field; a
// missing or malformed verdict is treated as not valid, never as valid.
package verify
