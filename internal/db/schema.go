package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// sqliteSchema is the full SQLite schema. Date columns are DATETIME so the
// driver hands them back as time.Time.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS clients (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL DEFAULT '',
    phone         TEXT NOT NULL DEFAULT '',
    social_handle TEXT NOT NULL DEFAULT '',
    country       TEXT NOT NULL DEFAULT '',
    type          TEXT NOT NULL DEFAULT 'client' CHECK (type IN ('client', 'dealer')),
    vip           BOOLEAN NOT NULL DEFAULT 0,
    notes         TEXT NOT NULL DEFAULT '',
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS watches (
    id                         INTEGER PRIMARY KEY,
    brand                      TEXT NOT NULL,
    model                      TEXT NOT NULL,
    reference_number           TEXT NOT NULL DEFAULT '',
    serial_number              TEXT NOT NULL DEFAULT '',
    year                       INTEGER,
    condition                  TEXT NOT NULL DEFAULT '',
    box                        BOOLEAN NOT NULL DEFAULT 0,
    papers                     BOOLEAN NOT NULL DEFAULT 0,
    purchase_price             INTEGER NOT NULL DEFAULT 0,
    target_sell_price          INTEGER NOT NULL DEFAULT 0,
    sale_price                 INTEGER,
    import_fee                 INTEGER,
    service_fee                INTEGER,
    polish_fee                 INTEGER,
    platform_fees              INTEGER,
    shipping_fee               INTEGER,
    insurance_fee              INTEGER,
    watch_register             BOOLEAN NOT NULL DEFAULT 0,
    purchase_date              DATETIME,
    date_received              DATETIME,
    date_listed                DATETIME,
    date_sent_to_service       DATETIME,
    date_returned_from_service DATETIME,
    sold_date                  DATETIME,
    date_sold                  DATETIME,
    status                     TEXT NOT NULL DEFAULT 'incoming'
                               CHECK (status IN ('incoming', 'received', 'servicing', 'in_stock', 'sold')),
    client_id                  INTEGER REFERENCES clients(id),
    buyer_id                   INTEGER REFERENCES clients(id),
    buyer_name                 TEXT NOT NULL DEFAULT '',
    notes                      TEXT NOT NULL DEFAULT '',
    image                      BLOB,
    image_mime                 TEXT NOT NULL DEFAULT '',
    created_at                 DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at                 DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_watches_status ON watches(status);

CREATE TABLE IF NOT EXISTS watch_events (
    id          INTEGER PRIMARY KEY,
    watch_id    INTEGER NOT NULL REFERENCES watches(id) ON DELETE CASCADE,
    from_status TEXT NOT NULL,
    to_status   TEXT NOT NULL,
    changed_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    changed_by  INTEGER REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS expenses (
    id          INTEGER PRIMARY KEY,
    description TEXT NOT NULL,
    amount      INTEGER NOT NULL CHECK (amount >= 0),
    category    TEXT NOT NULL,
    date        DATETIME NOT NULL,
    recurring   BOOLEAN NOT NULL DEFAULT 0,
    watch_id    INTEGER REFERENCES watches(id) ON DELETE CASCADE,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// postgresSchema mirrors sqliteSchema for PostgreSQL.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    TIMESTAMPTZ
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS clients (
    id            BIGSERIAL PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL DEFAULT '',
    phone         TEXT NOT NULL DEFAULT '',
    social_handle TEXT NOT NULL DEFAULT '',
    country       TEXT NOT NULL DEFAULT '',
    type          TEXT NOT NULL DEFAULT 'client' CHECK (type IN ('client', 'dealer')),
    vip           BOOLEAN NOT NULL DEFAULT FALSE,
    notes         TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS watches (
    id                         BIGSERIAL PRIMARY KEY,
    brand                      TEXT NOT NULL,
    model                      TEXT NOT NULL,
    reference_number           TEXT NOT NULL DEFAULT '',
    serial_number              TEXT NOT NULL DEFAULT '',
    year                       INTEGER,
    condition                  TEXT NOT NULL DEFAULT '',
    box                        BOOLEAN NOT NULL DEFAULT FALSE,
    papers                     BOOLEAN NOT NULL DEFAULT FALSE,
    purchase_price             BIGINT NOT NULL DEFAULT 0,
    target_sell_price          BIGINT NOT NULL DEFAULT 0,
    sale_price                 BIGINT,
    import_fee                 BIGINT,
    service_fee                BIGINT,
    polish_fee                 BIGINT,
    platform_fees              BIGINT,
    shipping_fee               BIGINT,
    insurance_fee              BIGINT,
    watch_register             BOOLEAN NOT NULL DEFAULT FALSE,
    purchase_date              TIMESTAMPTZ,
    date_received              TIMESTAMPTZ,
    date_listed                TIMESTAMPTZ,
    date_sent_to_service       TIMESTAMPTZ,
    date_returned_from_service TIMESTAMPTZ,
    sold_date                  TIMESTAMPTZ,
    date_sold                  TIMESTAMPTZ,
    status                     TEXT NOT NULL DEFAULT 'incoming'
                               CHECK (status IN ('incoming', 'received', 'servicing', 'in_stock', 'sold')),
    client_id                  BIGINT REFERENCES clients(id),
    buyer_id                   BIGINT REFERENCES clients(id),
    buyer_name                 TEXT NOT NULL DEFAULT '',
    notes                      TEXT NOT NULL DEFAULT '',
    image                      BYTEA,
    image_mime                 TEXT NOT NULL DEFAULT '',
    created_at                 TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at                 TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_watches_status ON watches(status);

CREATE TABLE IF NOT EXISTS watch_events (
    id          BIGSERIAL PRIMARY KEY,
    watch_id    BIGINT NOT NULL REFERENCES watches(id) ON DELETE CASCADE,
    from_status TEXT NOT NULL,
    to_status   TEXT NOT NULL,
    changed_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    changed_by  BIGINT REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS expenses (
    id          BIGSERIAL PRIMARY KEY,
    description TEXT NOT NULL,
    amount      BIGINT NOT NULL CHECK (amount >= 0),
    category    TEXT NOT NULL,
    date        TIMESTAMPTZ NOT NULL,
    recurring   BOOLEAN NOT NULL DEFAULT FALSE,
    watch_id    BIGINT REFERENCES watches(id) ON DELETE CASCADE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == DriverPostgres {
		schema = postgresSchema
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
