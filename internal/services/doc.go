// Package services implements the business logic of the signing service:
// the transaction lifecycle, the organisation registry, and the auth gate
// on the sign-process endpoints.
//
// Services depend on narrow store interfaces satisfied by
// *database.Queries, so tests run against in-memory fakes. All status
// writes go through the store's conditional terminal update; services never
// move a transaction out of PENDING any other way.
package services
