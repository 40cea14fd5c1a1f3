package database

const (
	createTableQuery = `
        CREATE TABLE IF NOT EXISTS generation_history (
            id UUID PRIMARY KEY,
            length INTEGER NOT NULL,
            classes TEXT[] NOT NULL,
            outcome VARCHAR(32) NOT NULL,
            duration_ns BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL
        )
    `
	insertRecordQuery = `
        INSERT INTO generation_history (id, length, classes, outcome, duration_ns, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO NOTHING
    `
	selectRecentQuery = `
        SELECT id, length, classes, outcome, duration_ns, created_at
        FROM generation_history
        ORDER BY created_at DESC
        LIMIT $1
    `
	pruneQuery = `
        DELETE FROM generation_history
        WHERE id NOT IN (
            SELECT id FROM generation_history
            ORDER BY created_at DESC
            LIMIT $1
        )
    `
	selectAllQuery = `
        SELECT id, length, classes, outcome, duration_ns, created_at
        FROM generation_history
        ORDER BY created_at DESC
    `
)
