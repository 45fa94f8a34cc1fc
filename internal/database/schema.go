package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL creates the inventory and staging tables. Kept idempotent so
// the server and the CLI can both run it on startup.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS countries (
	id   BIGSERIAL PRIMARY KEY,
	name VARCHAR(20) NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	id   BIGSERIAL PRIMARY KEY,
	name VARCHAR(30) NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id          BIGSERIAL PRIMARY KEY,
	sku         VARCHAR(50),
	barcode     VARCHAR(13) NOT NULL UNIQUE,
	name        VARCHAR(100) NOT NULL,
	price       INTEGER NOT NULL DEFAULT 0 CHECK (price >= 0),
	old_price   INTEGER NOT NULL DEFAULT 0 CHECK (old_price >= 0),
	red_price   BOOLEAN NOT NULL DEFAULT false,
	country_id  BIGINT NOT NULL REFERENCES countries(id),
	category_id BIGINT NOT NULL REFERENCES categories(id),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_products_sku  ON products (sku);
CREATE INDEX IF NOT EXISTS idx_products_name ON products (LOWER(name));

CREATE TABLE IF NOT EXISTS tag_templates (
	id          BIGSERIAL PRIMARY KEY,
	name        VARCHAR(30) NOT NULL,
	width       INTEGER NOT NULL,
	height      INTEGER NOT NULL,
	size        VARCHAR(5) NOT NULL DEFAULT 'big' CHECK (size IN ('big', 'small')),
	is_discount BOOLEAN NOT NULL DEFAULT false,
	UNIQUE (size, is_discount)
);

CREATE TABLE IF NOT EXISTS sheet_entries (
	id            BIGSERIAL PRIMARY KEY,
	session_id    UUID NOT NULL,
	printed_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	discount_type VARCHAR(40) NOT NULL DEFAULT '',
	name          VARCHAR(150) NOT NULL,
	price         INTEGER NOT NULL,
	old_price     INTEGER NOT NULL DEFAULT 0,
	red_price     BOOLEAN NOT NULL DEFAULT false,
	country       VARCHAR(30) NOT NULL DEFAULT '',
	category      VARCHAR(40) NOT NULL DEFAULT '',
	tag_id        BIGINT REFERENCES tag_templates(id) ON DELETE SET NULL
);
CREATE INDEX IF NOT EXISTS idx_sheet_entries_session ON sheet_entries (session_id, printed_at);

CREATE TABLE IF NOT EXISTS update_candidates (
	id         BIGSERIAL PRIMARY KEY,
	session_id UUID NOT NULL,
	name       VARCHAR(100) NOT NULL,
	price      INTEGER NOT NULL,
	old_price  INTEGER NOT NULL DEFAULT 0,
	red_price  BOOLEAN NOT NULL DEFAULT false,
	update_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (session_id, name)
);

CREATE TABLE IF NOT EXISTS missing_candidates (
	id         BIGSERIAL PRIMARY KEY,
	session_id UUID NOT NULL,
	sku        VARCHAR(50),
	name       VARCHAR(100),
	old_price  INTEGER NOT NULL DEFAULT 0,
	price      INTEGER NOT NULL DEFAULT 0,
	red_price  BOOLEAN NOT NULL DEFAULT false,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_missing_candidates_session ON missing_candidates (session_id);
`

// EnsureSchema creates all tables if they do not exist yet
func EnsureSchema(ctx context.Context) error {
	p := Pool()
	if p == nil {
		return fmt.Errorf("database not initialized")
	}
	return EnsureSchemaOn(ctx, p)
}

// EnsureSchemaOn runs the schema DDL against a specific pool
func EnsureSchemaOn(ctx context.Context, p *pgxpool.Pool) error {
	if _, err := p.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
