package database

// Package database holds the hand-written query layer for the signing
// service. The surface mirrors generated query code: a Queries struct bound
// to a connection or pool, WithTx for transactional use, and typed
// params/row structs per statement.

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// New binds a query set to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries runs the service's SQL statements against its bound DBTX.
type Queries struct {
	db DBTX
}

// WithTx returns a copy of the query set bound to tx.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

const isDatabaseRunning = `SELECT true`

// IsDatabaseRunning is a connectivity probe for readiness checks.
func (q *Queries) IsDatabaseRunning(ctx context.Context) (bool, error) {
	row := q.db.QueryRow(ctx, isDatabaseRunning)
	var ok bool
	err := row.Scan(&ok)
	return ok, err
}
