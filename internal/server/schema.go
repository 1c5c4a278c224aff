package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS accounts (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		type VARCHAR(20) NOT NULL,
		amount DECIMAL(14,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		type VARCHAR(20) NOT NULL,
		color VARCHAR(7) DEFAULT '#667eea',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id SERIAL PRIMARY KEY,
		kind VARCHAR(20) NOT NULL,
		category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
		account_id INTEGER REFERENCES accounts(id) ON DELETE SET NULL,
		amount DECIMAL(14,2) NOT NULL,
		note TEXT,
		occurred_on DATE NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_kind ON transactions(kind);

	-- Remove duplicates before enforcing uniqueness
	DO $$
	BEGIN
		IF EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = 'categories'
		) THEN
			WITH d AS (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY name, type ORDER BY id) rn
				FROM categories
			)
			DELETE FROM categories WHERE id IN (SELECT id FROM d WHERE rn > 1);
		END IF;
	END $$;

	-- Ensure uniqueness on (name, type)
	CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_type ON categories(name, type);
`

const seedSQL = `
	INSERT INTO categories (name, type, color) VALUES
		('Groceries', 'expense', '#e74c3c'),
		('Rent', 'expense', '#e67e22'),
		('Utilities', 'expense', '#f39c12'),
		('Transportation', 'expense', '#3498db'),
		('Entertainment', 'expense', '#9b59b6'),
		('Salary', 'income', '#27ae60'),
		('Freelance', 'income', '#16a085')
	ON CONFLICT (name, type) DO NOTHING;
`

// Migrate creates the schema and seeds the default categories.
func Migrate(ctx context.Context, db *sql.DB) error {
	slog.Info("Creating database schema...")
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	slog.Info("Seeding categories...")
	result, err := db.ExecContext(ctx, seedSQL)
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	slog.Info("Categories seeded", "rows_affected", rowsAffected)
	return nil
}
