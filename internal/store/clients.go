package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/watchdesk/internal/model"
)

const clientColumns = `id, name, email, phone, social_handle, country, type, vip, notes, created_at`

// CreateClient creates a new client. An empty type defaults to client.
func CreateClient(ctx context.Context, db *sqlx.DB, c *model.Client) (*model.Client, error) {
	if c.Type == "" {
		c.Type = model.ClientTypeClient
	}
	id, err := namedInsertID(ctx, db,
		`INSERT INTO clients (name, email, phone, social_handle, country, type, vip, notes)
		 VALUES (:name, :email, :phone, :social_handle, :country, :type, :vip, :notes)`,
		c,
	)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return GetClient(ctx, db, id)
}

// GetClient returns a client by ID.
func GetClient(ctx context.Context, db *sqlx.DB, id int64) (*model.Client, error) {
	c := &model.Client{}
	err := db.GetContext(ctx, c, db.Rebind(`SELECT `+clientColumns+` FROM clients WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting client: %w", err)
	}
	return c, nil
}

// ListClients returns all clients ordered by name, optionally filtered by type.
func ListClients(ctx context.Context, db *sqlx.DB, clientType string) ([]model.Client, error) {
	clients := []model.Client{}
	var err error

	if clientType != "" {
		err = db.SelectContext(ctx, &clients,
			db.Rebind(`SELECT `+clientColumns+` FROM clients WHERE type = ? ORDER BY name, id`), clientType)
	} else {
		err = db.SelectContext(ctx, &clients,
			`SELECT `+clientColumns+` FROM clients ORDER BY name, id`)
	}
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	return clients, nil
}

// UpdateClient replaces every editable field of c.
func UpdateClient(ctx context.Context, db *sqlx.DB, c *model.Client) error {
	res, err := sqlx.NamedExecContext(ctx, db,
		`UPDATE clients SET name = :name, email = :email, phone = :phone, social_handle = :social_handle,
			country = :country, type = :type, vip = :vip, notes = :notes
		 WHERE id = :id`,
		c,
	)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}
	return affected(res)
}

// ListClientWatches returns the watches a client sold to us or bought from
// us. Buyers are matched by id or, for older records, by name.
func ListClientWatches(ctx context.Context, db *sqlx.DB, clientID int64) ([]model.Watch, error) {
	watches := []model.Watch{}
	err := db.SelectContext(ctx, &watches,
		db.Rebind(`SELECT `+watchColumns+` FROM watches
		 WHERE client_id = ? OR buyer_id = ?
		    OR (buyer_id IS NULL AND buyer_name <> ''
		        AND LOWER(buyer_name) = (SELECT LOWER(name) FROM clients WHERE id = ?))
		 ORDER BY id DESC`),
		clientID, clientID, clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing client watches: %w", err)
	}
	return watches, nil
}
