package analytics

const schemaSQL = `
CREATE TABLE IF NOT EXISTS responses (
    seq               INTEGER PRIMARY KEY AUTOINCREMENT,
    received_at       TEXT NOT NULL,
    session_id        TEXT,
    model_used        TEXT NOT NULL,
    routing_reason    TEXT,
    latency_ns        INTEGER NOT NULL,
    cache_hit         INTEGER NOT NULL DEFAULT 0,
    message_count     INTEGER,
    input_tokens      INTEGER,
    output_tokens     INTEGER,
    total_tokens      INTEGER,
    total_cost        REAL,
    estimated_savings REAL
);
`
