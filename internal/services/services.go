package services

import (
	"github.com/egov-mobile/qr-sign-service/app/internal/config"
	"github.com/egov-mobile/qr-sign-service/app/internal/database"
	"github.com/egov-mobile/qr-sign-service/app/internal/verify"
)

// Services aggregates the business-logic services used by the HTTP layer.
type Services struct {
	Signing *SigningService
}

// NewServices is the single entry point for wiring the service layer: the
// oracle client, verifiers, organisation resolver and transaction
// lifecycle, all from the server configuration.
func NewServices(cfg *config.ServerEnvironment, queries *database.Queries) *Services {
	oracle := verify.NewClient(verify.Config{
		BaseURL:          cfg.OracleBaseURL,
		Timeout:          cfg.OracleTimeout,
		RetryMaxAttempts: cfg.OracleRetryMaxAttempts,
		RetryBaseDelay:   cfg.OracleRetryBaseDelay,
		RetryMaxDelay:    cfg.OracleRetryMaxDelay,
	})

	resolver := NewOrganisationResolver(queries)
	auth := NewAuthVerifier(verify.NewEdsAuthenticator(oracle, cfg.AuthProofMaxAge))
	verifier := verify.NewBundleVerifier(oracle)

	return &Services{
		Signing: NewSigningService(
			queries,
			resolver,
			auth,
			verifier,
			cfg.PublicBaseURL,
			cfg.DefaultExpiry,
		),
	}
}
