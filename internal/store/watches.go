package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/watchdesk/internal/model"
)

const watchColumns = `id, brand, model, reference_number, serial_number, year, condition, box, papers,
	purchase_price, target_sell_price, sale_price, import_fee, service_fee, polish_fee,
	platform_fees, shipping_fee, insurance_fee, watch_register,
	purchase_date, date_received, date_listed, date_sent_to_service, date_returned_from_service,
	sold_date, date_sold, status, client_id, buyer_id, buyer_name, notes, image_mime,
	created_at, updated_at`

// CreateWatch inserts a watch and records its initial status. An empty
// status defaults to incoming.
func CreateWatch(ctx context.Context, db *sqlx.DB, w *model.Watch, createdBy *int64) (*model.Watch, error) {
	if w.Status == "" {
		w.Status = model.WatchStatusIncoming
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := namedInsertID(ctx, tx,
		`INSERT INTO watches (brand, model, reference_number, serial_number, year, condition, box, papers,
			purchase_price, target_sell_price, sale_price, import_fee, service_fee, polish_fee,
			platform_fees, shipping_fee, insurance_fee, watch_register,
			purchase_date, date_received, date_listed, date_sent_to_service, date_returned_from_service,
			sold_date, date_sold, status, client_id, buyer_id, buyer_name, notes)
		 VALUES (:brand, :model, :reference_number, :serial_number, :year, :condition, :box, :papers,
			:purchase_price, :target_sell_price, :sale_price, :import_fee, :service_fee, :polish_fee,
			:platform_fees, :shipping_fee, :insurance_fee, :watch_register,
			:purchase_date, :date_received, :date_listed, :date_sent_to_service, :date_returned_from_service,
			:sold_date, :date_sold, :status, :client_id, :buyer_id, :buyer_name, :notes)`,
		w,
	)
	if err != nil {
		return nil, fmt.Errorf("creating watch: %w", err)
	}

	if err := recordEvent(ctx, tx, id, "", w.Status, createdBy); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing watch: %w", err)
	}

	return GetWatch(ctx, db, id)
}

// GetWatch returns a watch by ID, without its image.
func GetWatch(ctx context.Context, db *sqlx.DB, id int64) (*model.Watch, error) {
	w := &model.Watch{}
	err := db.GetContext(ctx, w, db.Rebind(`SELECT `+watchColumns+` FROM watches WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting watch: %w", err)
	}
	return w, nil
}

// ListWatches returns all watches, newest first, optionally filtered by status.
func ListWatches(ctx context.Context, db *sqlx.DB, status string) ([]model.Watch, error) {
	watches := []model.Watch{}
	var err error

	if status != "" {
		err = db.SelectContext(ctx, &watches,
			db.Rebind(`SELECT `+watchColumns+` FROM watches WHERE status = ? ORDER BY id DESC`), status)
	} else {
		err = db.SelectContext(ctx, &watches,
			`SELECT `+watchColumns+` FROM watches ORDER BY id DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("listing watches: %w", err)
	}
	return watches, nil
}

// UpdateWatch replaces every editable field of w. A status change is
// recorded as a watch event in the same transaction.
func UpdateWatch(ctx context.Context, db *sqlx.DB, w *model.Watch, changedBy *int64) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var previous string
	err = tx.GetContext(ctx, &previous, tx.Rebind(`SELECT status FROM watches WHERE id = ?`), w.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("getting watch status: %w", err)
	}

	_, err = sqlx.NamedExecContext(ctx, tx,
		`UPDATE watches SET brand = :brand, model = :model, reference_number = :reference_number,
			serial_number = :serial_number, year = :year, condition = :condition, box = :box, papers = :papers,
			purchase_price = :purchase_price, target_sell_price = :target_sell_price, sale_price = :sale_price,
			import_fee = :import_fee, service_fee = :service_fee, polish_fee = :polish_fee,
			platform_fees = :platform_fees, shipping_fee = :shipping_fee, insurance_fee = :insurance_fee,
			watch_register = :watch_register, purchase_date = :purchase_date, date_received = :date_received,
			date_listed = :date_listed, date_sent_to_service = :date_sent_to_service,
			date_returned_from_service = :date_returned_from_service, sold_date = :sold_date,
			date_sold = :date_sold, status = :status, client_id = :client_id, buyer_id = :buyer_id,
			buyer_name = :buyer_name, notes = :notes, updated_at = CURRENT_TIMESTAMP
		 WHERE id = :id`,
		w,
	)
	if err != nil {
		return fmt.Errorf("updating watch: %w", err)
	}

	if previous != w.Status {
		if err := recordEvent(ctx, tx, w.ID, previous, w.Status, changedBy); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing watch update: %w", err)
	}
	return nil
}

// DeleteWatch removes a watch together with its linked expenses and history.
func DeleteWatch(ctx context.Context, db *sqlx.DB, id int64) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM expenses WHERE watch_id = ?`), id); err != nil {
		return fmt.Errorf("deleting watch expenses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM watch_events WHERE watch_id = ?`), id); err != nil {
		return fmt.Errorf("deleting watch history: %w", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM watches WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting watch: %w", err)
	}
	if err := affected(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing watch delete: %w", err)
	}
	return nil
}

// SetWatchImage sets a watch's photo.
func SetWatchImage(ctx context.Context, db *sqlx.DB, id int64, image []byte, mime string) error {
	res, err := db.ExecContext(ctx,
		db.Rebind(`UPDATE watches SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`),
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting watch image: %w", err)
	}
	return affected(res)
}

// GetWatchImage returns a watch's photo and its MIME type. Both are empty
// when the watch has no photo or does not exist.
func GetWatchImage(ctx context.Context, db *sqlx.DB, id int64) ([]byte, string, error) {
	var row struct {
		Image []byte `db:"image"`
		Mime  string `db:"image_mime"`
	}
	err := db.GetContext(ctx, &row, db.Rebind(`SELECT image, image_mime FROM watches WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting watch image: %w", err)
	}
	return row.Image, row.Mime, nil
}

// GetWatchHistory returns the status changes of a watch, newest first.
func GetWatchHistory(ctx context.Context, db *sqlx.DB, watchID int64) ([]model.WatchEvent, error) {
	events := []model.WatchEvent{}
	err := db.SelectContext(ctx, &events,
		db.Rebind(`SELECT e.id, e.watch_id, e.from_status, e.to_status, e.changed_at, e.changed_by,
		        COALESCE(u.username, '') AS changed_by_name
		 FROM watch_events e
		 LEFT JOIN users u ON u.id = e.changed_by
		 WHERE e.watch_id = ?
		 ORDER BY e.changed_at DESC, e.id DESC`), watchID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting watch history: %w", err)
	}
	return events, nil
}

func recordEvent(ctx context.Context, tx *sqlx.Tx, watchID int64, from, to string, changedBy *int64) error {
	_, err := tx.ExecContext(ctx,
		tx.Rebind(`INSERT INTO watch_events (watch_id, from_status, to_status, changed_by) VALUES (?, ?, ?, ?)`),
		watchID, from, to, changedBy,
	)
	if err != nil {
		return fmt.Errorf("recording watch event: %w", err)
	}
	return nil
}
