package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/egov-mobile/qr-sign-service/app/internal/database"
	"github.com/egov-mobile/qr-sign-service/app/internal/qrsign"
	"github.com/egov-mobile/qr-sign-service/app/internal/sign"
)

// BundleChecker verifies every signature in a signed bundle. Implemented
// by verify.BundleVerifier.
type BundleChecker interface {
	VerifyBundle(ctx context.Context, b *sign.DocumentBundle) error
}

// SigningService drives the transaction lifecycle: creation, metadata,
// authenticated document retrieval, and signed-document submission.
type SigningService struct {
	store    TransactionStore
	resolver *OrganisationResolver
	auth     *AuthVerifier
	verifier BundleChecker

	publicBaseURL string
	defaultExpiry time.Duration

	now   func() time.Time
	newID func() string
}

// NewSigningService wires the lifecycle service. publicBaseURL is the
// externally visible root the sign and callback URLs are built from.
func NewSigningService(
	store TransactionStore,
	resolver *OrganisationResolver,
	auth *AuthVerifier,
	verifier BundleChecker,
	publicBaseURL string,
	defaultExpiry time.Duration,
) *SigningService {
	return &SigningService{
		store:         store,
		resolver:      resolver,
		auth:          auth,
		verifier:      verifier,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		defaultExpiry: defaultExpiry,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
}

// CreateResult is what a successful creation hands back to the caller.
// AuthToken is the raw one-time token for Token transactions; only its
// hash survives in storage, so it cannot be retrieved again.
type CreateResult struct {
	TransactionID string
	SignURL       string
	AuthToken     string
}

// Create validates the request, resolves the organisation, and persists a
// new PENDING transaction.
func (s *SigningService) Create(ctx context.Context, req *qrsign.InitSignRequest, clientID string) (CreateResult, error) {
	if req == nil {
		return CreateResult{}, sign.NewValidationError(sign.ReasonEmptyRequest, "request body is empty")
	}
	if err := sign.ValidateBundle(req.Documents); err != nil {
		return CreateResult{}, err
	}
	if err := sign.CheckBundleLimits(req.Documents); err != nil {
		return CreateResult{}, err
	}
	if err := sign.CheckFieldLen("description", req.Description, sign.MaxDescriptionLen); err != nil {
		return CreateResult{}, err
	}
	if err := sign.CheckFieldLen("backUrl", req.BackURL, sign.MaxURLLen); err != nil {
		return CreateResult{}, err
	}

	authType, rawToken, tokenHash, err := s.prepareAuth(req.Document)
	if err != nil {
		return CreateResult{}, err
	}

	org, err := s.resolver.Resolve(ctx, req.Organisation)
	if err != nil {
		return CreateResult{}, err
	}

	id := s.newID()
	now := s.now()

	expiry := now.Add(s.defaultExpiry)
	if req.ExpiryDate != nil {
		// A transaction must never be born expired.
		if !req.ExpiryDate.After(now) {
			return CreateResult{}, sign.NewValidationError(sign.ReasonInvalidExpiry,
				fmt.Sprintf("expiry_date %s is not in the future", req.ExpiryDate.Format(time.RFC3339)))
		}
		expiry = *req.ExpiryDate
	}
	description := req.Description
	if description == "" {
		description = "Подписание документов для клиента: " + clientID
	}
	backURL := req.BackURL
	if backURL == "" {
		backURL = s.publicBaseURL + "/back"
	}

	bundleJSON, err := json.Marshal(req.Documents)
	if err != nil {
		return CreateResult{}, sign.WrapInternalError(err, "encoding document bundle")
	}

	created, err := s.store.CreateSignTransaction(ctx, database.CreateSignTransactionParams{
		TransactionID:   id,
		OrganisationID:  org.ID,
		CreationDate:    now,
		ExpiryDate:      expiry,
		AuthType:        string(authType),
		AuthTokenHash:   tokenHash,
		Description:     description,
		Api2URI:         s.signProcessURI(id),
		BackURL:         backURL,
		Status:          string(sign.StatusPending),
		DocumentsToSign: bundleJSON,
	})
	if err != nil {
		return CreateResult{}, sign.WrapInternalError(err, "persisting transaction")
	}

	s.recordStatusChange(ctx, created.TransactionID, nil, sign.StatusPending, "transaction created")

	return CreateResult{
		TransactionID: id,
		SignURL:       "mobileSign:" + s.publicBaseURL + "/api/v1/egov-api1/" + id,
		AuthToken:     rawToken,
	}, nil
}

// prepareAuth normalizes the requested auth scheme. Token transactions
// with a blank token get a generated one; only the bcrypt hash of the
// token is kept for storage.
func (s *SigningService) prepareAuth(doc *qrsign.InitDocumentAuth) (sign.AuthType, string, *string, error) {
	rawType := ""
	rawToken := ""
	if doc != nil {
		rawType = doc.AuthType
		rawToken = doc.AuthToken
	}

	authType, ok := sign.ParseAuthType(rawType)
	if !ok {
		return "", "", nil, sign.NewValidationError(sign.ReasonUnsupportedAuth,
			fmt.Sprintf("invalid auth_type %q, valid values: Token, Eds, None", rawType))
	}
	if authType != sign.AuthTypeToken {
		return authType, "", nil, nil
	}

	if strings.TrimSpace(rawToken) == "" {
		rawToken = "token-auth-" + uuid.New().String()
	}
	if err := sign.CheckFieldLen("auth_token", rawToken, sign.MaxTokenLen); err != nil {
		return "", "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawToken), bcrypt.DefaultCost)
	if err != nil {
		return "", "", nil, sign.WrapInternalError(err, "hashing auth token")
	}
	hashStr := string(hash)
	return authType, rawToken, &hashStr, nil
}

// Metadata returns the consent-screen view of a transaction.
func (s *SigningService) Metadata(ctx context.Context, transactionID string) (*qrsign.MetadataResponse, error) {
	tx, err := s.getTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	org, err := s.resolver.store.GetOrganisationByID(ctx, tx.OrganisationID)
	if err != nil {
		return nil, sign.WrapInternalError(err, "loading transaction organisation")
	}

	return &qrsign.MetadataResponse{
		Description: tx.Description,
		ExpiryDate:  tx.ExpiryDate,
		Organisation: qrsign.MetadataOrganisation{
			NameRu: org.NameRu,
			NameKz: org.NameKz,
			NameEn: org.NameEn,
			BIN:    org.Bin,
		},
		Document: qrsign.MetadataDocument{
			URI:      tx.Api2URI,
			AuthType: tx.AuthType,
		},
	}, nil
}

// PendingDocuments returns the documents awaiting signature. The caller
// must pass the transaction's auth proof; the bundle is released only
// while the transaction is PENDING and unexpired.
func (s *SigningService) PendingDocuments(ctx context.Context, transactionID string, proof *qrsign.AuthProof) (*sign.DocumentBundle, error) {
	tx, err := s.getTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Verify(ctx, tx, proof); err != nil {
		return nil, err
	}
	if err := s.checkEligibility(tx); err != nil {
		return nil, err
	}

	var bundle sign.DocumentBundle
	if err := json.Unmarshal(tx.DocumentsToSign, &bundle); err != nil {
		return nil, sign.WrapInternalError(err, "decoding stored document bundle")
	}
	return &bundle, nil
}

// SubmitSigned verifies a signed bundle and finishes the transaction.
//
// The outcome write is conditional on the row still being PENDING, so a
// concurrent submission loses cleanly: whichever write lands first decides
// the terminal status, and the loser gets a not-eligible rejection. On
// success the transaction's back URL is returned for the client redirect.
func (s *SigningService) SubmitSigned(ctx context.Context, transactionID string, proof *qrsign.AuthProof, signed *sign.DocumentBundle) (string, error) {
	tx, err := s.getTransaction(ctx, transactionID)
	if err != nil {
		return "", err
	}
	if err := s.checkEligibility(tx); err != nil {
		return "", err
	}
	if authErr := s.auth.Verify(ctx, tx, proof); authErr != nil {
		// A failed auth gate on submission is a decided outcome, not a
		// retryable mistake: the transaction finishes as FAILED.
		s.finishTransaction(ctx, tx, sign.StatusFailed, nil, "authentication failed")
		return "", authErr
	}
	if signed == nil || len(signed.DocumentsToSign) == 0 {
		return "", sign.NewValidationError(sign.ReasonMissingBundle, "signed documents are missing")
	}

	if verr := s.verifier.VerifyBundle(ctx, signed); verr != nil {
		s.finishTransaction(ctx, tx, sign.StatusFailed, nil, verr.Error())
		return "", verr
	}

	signedJSON, err := json.Marshal(signed)
	if err != nil {
		return "", sign.WrapInternalError(err, "encoding signed bundle")
	}
	if err := s.finishTransaction(ctx, tx, sign.StatusSigned, signedJSON, "all signatures verified"); err != nil {
		return "", err
	}
	return tx.BackURL, nil
}

func (s *SigningService) getTransaction(ctx context.Context, transactionID string) (database.SignTransaction, error) {
	tx, err := s.store.GetSignTransaction(ctx, transactionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return database.SignTransaction{}, sign.NewNotFoundError(
			fmt.Sprintf("transaction %s not found", transactionID))
	}
	if err != nil {
		return database.SignTransaction{}, sign.WrapInternalError(err, "loading transaction")
	}
	return tx, nil
}

// checkEligibility rejects transactions that already finished or expired.
func (s *SigningService) checkEligibility(tx database.SignTransaction) error {
	if sign.Status(tx.Status) != sign.StatusPending {
		return sign.NewNotEligibleError(
			fmt.Sprintf("transaction %s already finished with status %s", tx.TransactionID, tx.Status))
	}
	if s.now().After(tx.ExpiryDate) {
		return sign.NewNotEligibleError(
			fmt.Sprintf("transaction %s expired at %s", tx.TransactionID, tx.ExpiryDate.Format(time.RFC3339)))
	}
	return nil
}

// finishTransaction makes the terminal status write. A zero row count
// means another request finished the transaction first.
func (s *SigningService) finishTransaction(ctx context.Context, tx database.SignTransaction, status sign.Status, signedJSON []byte, reason string) error {
	rows, err := s.store.CompleteSignTransaction(ctx, database.CompleteSignTransactionParams{
		TransactionID:   tx.TransactionID,
		Status:          string(status),
		SignedDocuments: signedJSON,
	})
	if err != nil {
		return sign.WrapInternalError(err, "finishing transaction")
	}
	if rows == 0 {
		return sign.NewNotEligibleError(
			fmt.Sprintf("transaction %s was finished concurrently", tx.TransactionID))
	}

	old := tx.Status
	s.recordStatusChange(ctx, tx.TransactionID, &old, status, reason)
	return nil
}

// recordStatusChange appends to the status history. The write is best
// effort: a failure is logged and never turns a decided outcome into an
// error.
func (s *SigningService) recordStatusChange(ctx context.Context, transactionID string, oldStatus *string, newStatus sign.Status, reason string) {
	err := s.store.InsertStatusHistory(ctx, database.InsertStatusHistoryParams{
		TransactionID: transactionID,
		OldStatus:     oldStatus,
		NewStatus:     string(newStatus),
		ChangedReason: reason,
	})
	if err != nil {
		slog.Error("failed to record status history",
			slog.String("transaction_id", transactionID),
			slog.String("new_status", string(newStatus)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *SigningService) signProcessURI(transactionID string) string {
	return s.publicBaseURL + "/api/v1/sign-process/" + transactionID
}
