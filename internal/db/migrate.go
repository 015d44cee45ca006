package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Migrate creates the schema if it does not exist yet. It is safe to run on
// every start.
func Migrate(ctx context.Context, bdb *bun.DB) error {
	return bdb.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewCreateTable().Model((*UserRow)(nil)).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create users: %w", err)
		}

		if _, err := tx.NewCreateTable().
			Model((*CustomerRow)(nil)).
			IfNotExists().
			ForeignKey(`("owner_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return fmt.Errorf("create customers: %w", err)
		}

		if _, err := tx.NewCreateIndex().
			Model((*CustomerRow)(nil)).
			Index("idx_customers_owner_created").
			Column("owner_id", "created_at").
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("create customers index: %w", err)
		}

		if _, err := tx.NewCreateTable().Model((*CustomerEventRow)(nil)).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create customer_events: %w", err)
		}
		return nil
	})
}
