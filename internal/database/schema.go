package database

const schema = `
CREATE TABLE providers_cache (
	provider TEXT NOT NULL CHECK (length(provider) <= 20),
	id TEXT NOT NULL CHECK (length(id) <= 10),
	data_type TEXT NOT NULL CHECK (length(data_type) <= 20),
	data BLOB NOT NULL,
	last_update TIMESTAMP NOT NULL,
	PRIMARY KEY (provider, id, data_type)
);

CREATE INDEX idx_providers_cache_provider ON providers_cache(provider);
CREATE INDEX idx_providers_cache_last_update ON providers_cache(last_update);
`

// migrations contains incremental schema changes, applied in order based on
// the current user_version. migrations[0] is empty because version 0 uses the
// base schema.
var migrations = []string{
	"",
}
