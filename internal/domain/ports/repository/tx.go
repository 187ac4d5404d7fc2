package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque executor handle. Postgres repos accept pgx.Tx,
// *pgxpool.Conn, *pgxpool.Pool or nil (meaning "use the pool").
type Tx = any

// NoTX is passed when the caller does not need transactional semantics.
var NoTX Tx = nil

// TransactionManager runs a callback inside a database transaction.
// The same tx handle must be forwarded to every repo call in fn.
type TransactionManager interface {
	WithTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
