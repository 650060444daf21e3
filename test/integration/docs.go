//go:build integration

// Package integration contains end-to-end tests that run the qr-sign-server
// against a temporary PostgreSQL database and a stubbed verification oracle.
//
// Run with:
//
//	go test -tags=integration -v ./test/integration
package integration
