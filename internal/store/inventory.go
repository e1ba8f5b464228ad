package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/watchdesk/internal/model"
)

// ListInventory returns the number of watches and their total purchase price
// per status, in lifecycle order. Statuses without watches are omitted.
func ListInventory(ctx context.Context, db *sqlx.DB) ([]model.StatusSummary, error) {
	summary := []model.StatusSummary{}
	err := db.SelectContext(ctx, &summary,
		`SELECT status, COUNT(*) AS count, COALESCE(SUM(purchase_price), 0) AS value
		 FROM watches GROUP BY status
		 ORDER BY CASE status
		   WHEN 'incoming' THEN 0
		   WHEN 'received' THEN 1
		   WHEN 'servicing' THEN 2
		   WHEN 'in_stock' THEN 3
		   WHEN 'sold' THEN 4
		   ELSE 5 END, status`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	return summary, nil
}
