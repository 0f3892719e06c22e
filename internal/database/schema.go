package database

import "github.com/uptrace/bun"

// Schema notes:
//
//   - Enumerations (property status/type, financial type/status) are lookup
//     tables keyed by stable codes; the domain layer owns the code↔label maps.
//   - Dates are stored as ISO "YYYY-MM-DD" text. Monthly queries match on
//     calendar components, not ranges.
//   - Cascades carry the delete contract: removing a contract drops its
//     guarantee and financial records; removing an owner drops its address
//     and bank account detail rows.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS property_statuses (
		code TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS property_types (
		code TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS financial_types (
		code TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS financial_statuses (
		code TEXT PRIMARY KEY
	)`,

	`CREATE TABLE IF NOT EXISTS owners (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		document   TEXT,
		email      TEXT,
		phone      TEXT,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS owner_addresses (
		owner_id   TEXT PRIMARY KEY REFERENCES owners (id) ON DELETE CASCADE,
		street     TEXT,
		number     TEXT,
		complement TEXT,
		district   TEXT,
		city       TEXT,
		state      TEXT,
		zip_code   TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS owner_bank_accounts (
		owner_id     TEXT PRIMARY KEY REFERENCES owners (id) ON DELETE CASCADE,
		bank         TEXT,
		agency       TEXT,
		account      TEXT,
		account_type TEXT,
		pix_key      TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS properties (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL REFERENCES owners (id),
		address     TEXT NOT NULL,
		city        TEXT,
		state       TEXT,
		type_code   TEXT NOT NULL REFERENCES property_types (code),
		status_code TEXT NOT NULL REFERENCES property_statuses (code),
		rent_value  REAL NOT NULL DEFAULT 0,
		notes       TEXT,
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tenants (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		document   TEXT,
		email      TEXT,
		phone      TEXT,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS brokers (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		document        TEXT,
		email           TEXT,
		phone           TEXT,
		creci           TEXT,
		commission_rate REAL NOT NULL DEFAULT 5.0,
		created_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS contracts (
		id          TEXT PRIMARY KEY,
		property_id TEXT NOT NULL REFERENCES properties (id),
		tenant_id   TEXT NOT NULL REFERENCES tenants (id),
		broker_id   TEXT REFERENCES brokers (id),
		start_date  TEXT NOT NULL,
		end_date    TEXT,
		rent_amount REAL NOT NULL,
		due_day     INTEGER NOT NULL DEFAULT 5,
		created_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS guarantees (
		id               TEXT PRIMARY KEY,
		contract_id      TEXT NOT NULL UNIQUE REFERENCES contracts (id) ON DELETE CASCADE,
		security_deposit REAL,
		complement       TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS financial_categories (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		type_code TEXT NOT NULL REFERENCES financial_types (code),
		UNIQUE (name, type_code)
	)`,
	`CREATE TABLE IF NOT EXISTS financial_records (
		id          TEXT PRIMARY KEY,
		contract_id TEXT REFERENCES contracts (id) ON DELETE CASCADE,
		category_id TEXT NOT NULL REFERENCES financial_categories (id),
		type_code   TEXT NOT NULL REFERENCES financial_types (code),
		status_code TEXT NOT NULL REFERENCES financial_statuses (code),
		description TEXT,
		amount      REAL NOT NULL,
		due_date    TEXT NOT NULL,
		paid_date   TEXT,
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_properties_owner ON properties (owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_property ON contracts (property_id)`,
	`CREATE INDEX IF NOT EXISTS idx_financial_records_due_date ON financial_records (due_date)`,
	`CREATE INDEX IF NOT EXISTS idx_financial_records_contract ON financial_records (contract_id)`,

	`INSERT OR IGNORE INTO property_statuses (code) VALUES ('available'), ('rented'), ('maintenance')`,
	`INSERT OR IGNORE INTO property_types (code) VALUES ('house'), ('apartment'), ('commercial'), ('land'), ('other')`,
	`INSERT OR IGNORE INTO financial_types (code) VALUES ('income'), ('expense')`,
	`INSERT OR IGNORE INTO financial_statuses (code) VALUES ('paid'), ('pending'), ('overdue')`,
	`INSERT OR IGNORE INTO financial_categories (id, name, type_code) VALUES
		('category-default-income', 'Outros', 'income'),
		('category-default-expense', 'Outros', 'expense')`,
}

func applySchema(db *bun.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
