package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/egov-mobile/qr-sign-service/app/internal/database"
	"github.com/egov-mobile/qr-sign-service/app/internal/qrsign"
	"github.com/egov-mobile/qr-sign-service/app/internal/sign"
)

// EdsProofVerifier verifies a signed-XML auth proof against the endpoint
// it should be bound to. Implemented by verify.EdsAuthenticator.
type EdsProofVerifier interface {
	VerifyProof(ctx context.Context, signedXML, expectedURL string) (login string, err error)
}

// AuthVerifier gates document retrieval and submission on the auth scheme
// chosen when the transaction was created.
type AuthVerifier struct {
	eds EdsProofVerifier
}

// NewAuthVerifier returns a verifier that delegates Eds proofs to eds.
func NewAuthVerifier(eds EdsProofVerifier) *AuthVerifier {
	return &AuthVerifier{eds: eds}
}

// Verify checks the client's proof against the transaction's auth scheme.
//
// Token transactions require the raw token whose bcrypt hash was stored at
// creation; the comparison is against the hash, so presenting the stored
// hash itself does not pass. Eds transactions require a fresh signed XML
// bound to the transaction's sign-process URI. Transactions created with
// auth type None cannot be unlocked at all.
func (a *AuthVerifier) Verify(ctx context.Context, tx database.SignTransaction, proof *qrsign.AuthProof) error {
	authType, ok := sign.ParseAuthType(tx.AuthType)
	if !ok {
		return sign.NewAuthenticationError(sign.ReasonUnsupportedAuth,
			"transaction carries an unknown auth type")
	}

	switch authType {
	case sign.AuthTypeToken:
		return a.verifyToken(tx, proof)
	case sign.AuthTypeEds:
		if proof == nil || strings.TrimSpace(proof.XML) == "" {
			return sign.NewAuthenticationError(sign.ReasonMissingAuthProof,
				"signed auth XML is required")
		}
		_, err := a.eds.VerifyProof(ctx, proof.XML, tx.Api2URI)
		return err
	default:
		return sign.NewAuthenticationError(sign.ReasonUnsupportedAuth,
			"transaction does not support authenticated document access")
	}
}

func (a *AuthVerifier) verifyToken(tx database.SignTransaction, proof *qrsign.AuthProof) error {
	if proof == nil || proof.AuthToken == "" {
		return sign.NewAuthenticationError(sign.ReasonMissingAuthProof,
			"auth token is required")
	}
	if tx.AuthTokenHash == nil || *tx.AuthTokenHash == "" {
		return sign.NewAuthenticationError(sign.ReasonAuthRejected,
			"transaction has no token registered")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*tx.AuthTokenHash), []byte(proof.AuthToken)); err != nil {
		return sign.NewAuthenticationError(sign.ReasonAuthRejected,
			"auth token does not match")
	}
	return nil
}
