package database

import "time"

// Organisation is a row in the organisations table. BIN is unique; names
// are denormalized display strings in the three supported languages.
type Organisation struct {
	ID        int64
	Bin       string
	NameRu    string
	NameKz    string
	NameEn    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SignTransaction is a row in the sign_transactions table.
//
// DocumentsToSign and SignedDocuments hold the bundle JSON verbatim; the
// query layer does not interpret them. SignedDocuments is nil until the
// transaction reaches SIGNED.
type SignTransaction struct {
	TransactionID   string
	OrganisationID  int64
	CreationDate    time.Time
	ExpiryDate      time.Time
	AuthType        string
	AuthTokenHash   *string
	Description     string
	Api2URI         string
	BackURL         string
	Status          string
	DocumentsToSign []byte
	SignedDocuments []byte
}

// TransactionStatusHistory is a row in the append-only
// transaction_status_history table. OldStatus is nil for the creation
// record.
type TransactionStatusHistory struct {
	ID            int64
	TransactionID string
	OldStatus     *string
	NewStatus     string
	ChangedAt     time.Time
	ChangedReason string
}
