package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create suppliers",
		SQL: `
			CREATE TABLE suppliers (
				id                     TEXT PRIMARY KEY,
				company_name           TEXT NOT NULL,
				company_website        TEXT NOT NULL DEFAULT '',
				contact_name           TEXT NOT NULL DEFAULT '',
				contact_email          TEXT NOT NULL DEFAULT '',
				contact_phone          TEXT NOT NULL DEFAULT '',
				product_name           TEXT NOT NULL,
				product_description    TEXT NOT NULL DEFAULT '',
				key_features           TEXT NOT NULL DEFAULT '',
				primary_use_cases      TEXT NOT NULL DEFAULT '',
				pricing_model          TEXT NOT NULL DEFAULT '',
				unique_selling_points  TEXT NOT NULL DEFAULT '',
				ideal_customer_profile TEXT NOT NULL DEFAULT '',
				created_at             TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_suppliers_company ON suppliers (company_name);
		`,
	},
	{
		Version: 2,
		Name:    "create imported leads",
		SQL: `
			CREATE TABLE imported_leads (
				id           TEXT PRIMARY KEY,
				company_name TEXT NOT NULL,
				contact_name TEXT NOT NULL DEFAULT '',
				email        TEXT NOT NULL,
				phone        TEXT NOT NULL DEFAULT '',
				address      TEXT NOT NULL DEFAULT '',
				source       TEXT NOT NULL DEFAULT '',
				uploaded_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE UNIQUE INDEX idx_imported_leads_email ON imported_leads (email);
			CREATE INDEX idx_imported_leads_source ON imported_leads (source);
		`,
	},
	{
		Version: 3,
		Name:    "create campaigns",
		SQL: `
			CREATE TABLE campaigns (
				id          TEXT PRIMARY KEY,
				supplier_id TEXT NOT NULL REFERENCES suppliers(id) ON DELETE CASCADE,
				lead_id     TEXT NOT NULL REFERENCES imported_leads(id) ON DELETE CASCADE,
				recipient   TEXT NOT NULL,
				subject     TEXT NOT NULL,
				body        TEXT NOT NULL,
				status      TEXT NOT NULL DEFAULT 'Pending',
				sent_at     TEXT,
				created_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_campaigns_supplier ON campaigns (supplier_id);
			CREATE INDEX idx_campaigns_status ON campaigns (status);
			CREATE INDEX idx_campaigns_recipient ON campaigns (recipient);
		`,
	},
	{
		Version: 4,
		Name:    "create app state",
		SQL: `
			CREATE TABLE app_state (
				key        TEXT PRIMARY KEY,
				value      TEXT NOT NULL,
				updated_at TEXT NOT NULL DEFAULT (datetime('now'))
			);
		`,
	},
}
