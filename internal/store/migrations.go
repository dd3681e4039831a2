package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS deliveries (
	id           TEXT PRIMARY KEY,
	account      TEXT NOT NULL,
	uid          INTEGER NOT NULL,
	message_id   TEXT NOT NULL DEFAULT '',
	subject      TEXT NOT NULL DEFAULT '',
	delivered_at DATETIME NOT NULL,
	UNIQUE (account, uid)
);

CREATE INDEX IF NOT EXISTS idx_deliveries_delivered_at ON deliveries(delivered_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
