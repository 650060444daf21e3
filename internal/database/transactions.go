package database

import (
	"context"
	"time"
)

const createSignTransaction = `
INSERT INTO sign_transactions (
    transaction_id, organisation_id, creation_date, expiry_date,
    auth_type, auth_token_hash, description, api2_uri, back_url,
    status, documents_to_sign
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING transaction_id, organisation_id, creation_date, expiry_date,
    auth_type, auth_token_hash, description, api2_uri, back_url,
    status, documents_to_sign, signed_documents
`

type CreateSignTransactionParams struct {
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
}

// CreateSignTransaction inserts a new signing transaction.
func (q *Queries) CreateSignTransaction(ctx context.Context, arg CreateSignTransactionParams) (SignTransaction, error) {
	row := q.db.QueryRow(ctx, createSignTransaction,
		arg.TransactionID, arg.OrganisationID, arg.CreationDate, arg.ExpiryDate,
		arg.AuthType, arg.AuthTokenHash, arg.Description, arg.Api2URI, arg.BackURL,
		arg.Status, arg.DocumentsToSign,
	)
	return scanSignTransaction(row)
}

const getSignTransaction = `
SELECT transaction_id, organisation_id, creation_date, expiry_date,
    auth_type, auth_token_hash, description, api2_uri, back_url,
    status, documents_to_sign, signed_documents
FROM sign_transactions
WHERE transaction_id = $1
`

// GetSignTransaction returns the transaction with the given id, or
// pgx.ErrNoRows.
func (q *Queries) GetSignTransaction(ctx context.Context, transactionID string) (SignTransaction, error) {
	row := q.db.QueryRow(ctx, getSignTransaction, transactionID)
	return scanSignTransaction(row)
}

const completeSignTransaction = `
UPDATE sign_transactions
SET status = $2, signed_documents = $3
WHERE transaction_id = $1 AND status = 'PENDING'
`

type CompleteSignTransactionParams struct {
	TransactionID   string
	Status          string
	SignedDocuments []byte
}

// CompleteSignTransaction moves a PENDING transaction to its terminal
// status. The status predicate makes the transition at-most-once: a
// transaction that already left PENDING matches no rows and the returned
// count is zero.
func (q *Queries) CompleteSignTransaction(ctx context.Context, arg CompleteSignTransactionParams) (int64, error) {
	tag, err := q.db.Exec(ctx, completeSignTransaction,
		arg.TransactionID, arg.Status, arg.SignedDocuments)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSignTransaction(row rowScanner) (SignTransaction, error) {
	var t SignTransaction
	err := row.Scan(
		&t.TransactionID, &t.OrganisationID, &t.CreationDate, &t.ExpiryDate,
		&t.AuthType, &t.AuthTokenHash, &t.Description, &t.Api2URI, &t.BackURL,
		&t.Status, &t.DocumentsToSign, &t.SignedDocuments,
	)
	return t, err
}
