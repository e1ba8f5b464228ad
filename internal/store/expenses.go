package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/watchdesk/internal/model"
)

const expenseColumns = `id, description, amount, category, date, recurring, watch_id, created_at`

// CreateExpense records a new expense.
func CreateExpense(ctx context.Context, db *sqlx.DB, e *model.Expense) (*model.Expense, error) {
	id, err := namedInsertID(ctx, db,
		`INSERT INTO expenses (description, amount, category, date, recurring, watch_id)
		 VALUES (:description, :amount, :category, :date, :recurring, :watch_id)`,
		e,
	)
	if err != nil {
		return nil, fmt.Errorf("creating expense: %w", err)
	}

	return GetExpense(ctx, db, id)
}

// GetExpense returns an expense by ID.
func GetExpense(ctx context.Context, db *sqlx.DB, id int64) (*model.Expense, error) {
	e := &model.Expense{}
	err := db.GetContext(ctx, e, db.Rebind(`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns all expenses, most recent first.
func ListExpenses(ctx context.Context, db *sqlx.DB) ([]model.Expense, error) {
	expenses := []model.Expense{}
	err := db.SelectContext(ctx, &expenses,
		`SELECT `+expenseColumns+` FROM expenses ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpense replaces every editable field of e.
func UpdateExpense(ctx context.Context, db *sqlx.DB, e *model.Expense) error {
	res, err := sqlx.NamedExecContext(ctx, db,
		`UPDATE expenses SET description = :description, amount = :amount, category = :category,
			date = :date, recurring = :recurring, watch_id = :watch_id
		 WHERE id = :id`,
		e,
	)
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}
	return affected(res)
}

// DeleteExpense removes an expense.
func DeleteExpense(ctx context.Context, db *sqlx.DB, id int64) error {
	res, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM expenses WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}
	return affected(res)
}
