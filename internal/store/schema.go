package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS dispositions (
    deal_key             TEXT PRIMARY KEY,
    disposition          TEXT NOT NULL,
    deal_name            TEXT,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS recent_files (
    file_path            TEXT PRIMARY KEY,
    deal_count           INTEGER NOT NULL,
    opened_at            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recent_opened ON recent_files(opened_at);
`
