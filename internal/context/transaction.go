package context

import (
	"context"

	"gorm.io/gorm"
)

type contextKey string

const transactionKey contextKey = "transaction"

// WithTransaction stores an open transaction on the context so repositories
// called further down the stack join it instead of the pooled connection.
func WithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, transactionKey, tx)
}

// GetTransaction returns the transaction carried by ctx, if any.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(transactionKey).(*gorm.DB)
	return tx, ok
}
