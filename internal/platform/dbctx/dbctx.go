package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// A nil Tx means "use the repository's default handle".
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

func New(ctx context.Context) Context { return Context{Ctx: ctx} }

func (c Context) WithTx(tx *gorm.DB) Context { return Context{Ctx: c.Ctx, Tx: tx} }

// Resolve returns the transaction when present, else fallback, bound to Ctx.
func (c Context) Resolve(fallback *gorm.DB) *gorm.DB {
	db := c.Tx
	if db == nil {
		db = fallback
	}
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return db.WithContext(ctx)
}
