package qrsign

// api_types.go defines the JSON DTOs for the signing API endpoints.

import (
	"time"

	"github.com/egov-mobile/qr-sign-service/app/internal/sign"
)

// InitSignRequest is the body of POST /api/v1/mgovSign.
type InitSignRequest struct {
	Description  string               `json:"description"`
	ExpiryDate   *time.Time           `json:"expiry_date"`
	Organisation *InitOrganisation    `json:"organisation"`
	Document     *InitDocumentAuth    `json:"document"`
	BackURL      string               `json:"backUrl"`
	Documents    *sign.DocumentBundle `json:"documents"`
}

// InitOrganisation carries the requesting organisation's display names and
// business identification number.
type InitOrganisation struct {
	NameRu string `json:"nameRu"`
	NameKz string `json:"nameKz"`
	NameEn string `json:"nameEn"`
	BIN    string `json:"bin"`
}

// InitDocumentAuth selects the auth scheme that gates document retrieval
// and submission.
type InitDocumentAuth struct {
	AuthType  string `json:"auth_type"`
	AuthToken string `json:"auth_token,omitempty"`
}

// InitSignResponse is returned from POST /api/v1/mgovSign. AuthToken is
// populated only for Token-gated transactions and only here: the service
// stores a hash, so the raw token cannot be recovered later.
type InitSignResponse struct {
	TransactionID string `json:"transactionId"`
	SignURL       string `json:"signUrl"`
	AuthToken     string `json:"authToken,omitempty"`
}

// MetadataResponse is the body of GET /api/v1/egov-api1/{transactionId}:
// what a signing client needs to render the consent screen and find the
// document endpoint.
type MetadataResponse struct {
	Description  string               `json:"description"`
	ExpiryDate   time.Time            `json:"expiry_date"`
	Organisation MetadataOrganisation `json:"organisation"`
	Document     MetadataDocument     `json:"document"`
}

// MetadataOrganisation mirrors InitOrganisation on the way out.
type MetadataOrganisation struct {
	NameRu string `json:"nameRu"`
	NameKz string `json:"nameKz"`
	NameEn string `json:"nameEn"`
	BIN    string `json:"bin"`
}

// MetadataDocument points the client at the sign-process endpoint and names
// the auth scheme it must satisfy there. The raw auth secret is never
// included.
type MetadataDocument struct {
	URI      string `json:"uri"`
	AuthType string `json:"auth_type"`
}

// AuthProof is the client's proof of possession on the sign-process
// endpoints: a signed XML for Eds transactions, a raw token for Token
// transactions. Exactly one field is expected, matching the transaction's
// auth scheme.
type AuthProof struct {
	XML       string `json:"xml,omitempty"`
	AuthToken string `json:"auth_token,omitempty"`
}

// SubmitSignedRequest is the body of PUT /api/v1/sign-process/{id}: the
// auth proof plus the bundle with signatures filled in.
type SubmitSignedRequest struct {
	Auth      *AuthProof           `json:"auth,omitempty"`
	Documents *sign.DocumentBundle `json:"documents"`
}

// SubmitSignedResponse tells the client where to send the user after a
// successful submission.
type SubmitSignedResponse struct {
	BackURL string `json:"backUrl"`
}
