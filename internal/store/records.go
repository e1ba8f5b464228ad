package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/watchdesk/internal/model"
)

// Records exposes the watch and expense listings to the report service.
type Records struct {
	DB *sqlx.DB
}

// ListWatches lists watches, optionally filtered by status.
func (r Records) ListWatches(ctx context.Context, status string) ([]model.Watch, error) {
	return ListWatches(ctx, r.DB, status)
}

// ListExpenses lists every expense.
func (r Records) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	return ListExpenses(ctx, r.DB)
}
