package doistore

const schema = `
CREATE TABLE IF NOT EXISTS dois (
    doi                TEXT PRIMARY KEY,
    title              TEXT,
    journal            TEXT,
    published          TEXT,
    authors_json       TEXT NOT NULL,
    jrc_author_json    TEXT,
    jrc_first_author_json TEXT,
    jrc_first_id_json  TEXT,
    jrc_last_author    TEXT,
    jrc_last_id        TEXT,
    created_at         TEXT NOT NULL,
    updated_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_events (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id  TEXT NOT NULL,
    doi         TEXT NOT NULL,
    author      TEXT NOT NULL,
    outcome     TEXT NOT NULL,
    basis       TEXT NOT NULL,
    employee_id TEXT,
    confidence  REAL,
    detail      TEXT,
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_events_doi ON audit_events(doi);
CREATE INDEX IF NOT EXISTS idx_audit_events_session ON audit_events(session_id);
`
