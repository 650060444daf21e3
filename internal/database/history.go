package database

import "context"

const insertStatusHistory = `
INSERT INTO transaction_status_history (transaction_id, old_status, new_status, changed_reason)
VALUES ($1, $2, $3, $4)
`

type InsertStatusHistoryParams struct {
	TransactionID string
	OldStatus     *string
	NewStatus     string
	ChangedReason string
}

// InsertStatusHistory appends a status-change record. The table is
// append-only; rows are never updated or deleted.
func (q *Queries) InsertStatusHistory(ctx context.Context, arg InsertStatusHistoryParams) error {
	_, err := q.db.Exec(ctx, insertStatusHistory,
		arg.TransactionID, arg.OldStatus, arg.NewStatus, arg.ChangedReason)
	return err
}
