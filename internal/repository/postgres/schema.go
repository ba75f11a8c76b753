package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates all tables and indexes if they do not exist yet.
// Statement order respects foreign key dependencies.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				set_code VARCHAR(10) NOT NULL,
				number VARCHAR(20) NOT NULL,
				name VARCHAR(500) NOT NULL,
				rarity VARCHAR(50) NOT NULL
			)`, tables.Cards),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS ix_%s_set_number ON %s (set_code, number)`,
			tables.Cards, tables.Cards),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS ix_%s_name ON %s (name)`,
			tables.Cards, tables.Cards),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				code VARCHAR(10) PRIMARY KEY,
				name VARCHAR(200) NOT NULL,
				release_date DATE
			)`, tables.Sets),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				code VARCHAR(20) UNIQUE NOT NULL,
				name VARCHAR(100) NOT NULL
			)`, tables.Languages),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				name VARCHAR(50) UNIQUE NOT NULL
			)`, tables.Finishes),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				name VARCHAR(50) UNIQUE NOT NULL
			)`, tables.ContainerTypes),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				name VARCHAR(200) NOT NULL,
				description TEXT,
				type_id BIGINT NOT NULL REFERENCES %s(id),
				parent_id BIGINT REFERENCES %s(id),
				depth INTEGER NOT NULL DEFAULT 0 CHECK (depth <= 9),
				is_sold BOOLEAN NOT NULL DEFAULT FALSE,
				binder_columns INTEGER NOT NULL DEFAULT 3 CHECK (binder_columns IN (2, 3, 4)),
				binder_fill_row BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Containers, tables.ContainerTypes, tables.Containers),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				set_code VARCHAR(10) NOT NULL,
				card_number VARCHAR(20) NOT NULL,
				container_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
				finish_id BIGINT REFERENCES %s(id),
				language_id BIGINT NOT NULL REFERENCES %s(id),
				comments TEXT,
				position INTEGER
			)`, tables.Entries, tables.Containers, tables.Finishes, tables.Languages),
		// Merge-key backstop: NULLS NOT DISTINCT so a NULL finish still
		// collides with another NULL finish.
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS uq_%s_merge_key
			ON %s (set_code, card_number, container_id, finish_id, language_id)
			NULLS NOT DISTINCT`, tables.Entries, tables.Entries),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS ix_%s_container_position ON %s (container_id, position)`,
			tables.Entries, tables.Entries),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}

// DropTables removes every table, children first. Intended for dev and test
// environments only; the seed command refuses to run it in prod.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	ordered := []string{
		tables.Entries,
		tables.Containers,
		tables.ContainerTypes,
		tables.Finishes,
		tables.Languages,
		tables.Sets,
		tables.Cards,
	}

	for _, table := range ordered {
		if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, table)); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}

	return nil
}
