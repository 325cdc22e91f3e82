package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`DO $$ BEGIN CREATE TYPE session_status AS ENUM ('recording', 'done', 'error'); EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		language TEXT NOT NULL DEFAULT 'en',
		status session_status NOT NULL DEFAULT 'recording',
		started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		ended_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions (started_at DESC)`,
	`CREATE TABLE IF NOT EXISTS utterances (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		transcript TEXT NOT NULL DEFAULT '',
		audio_path TEXT NOT NULL DEFAULT '',
		json_path TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_utterances_session ON utterances (session_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS gloss_tokens (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		utterance_id UUID NOT NULL REFERENCES utterances(id) ON DELETE CASCADE,
		position INTEGER NOT NULL CHECK (position >= 0),
		token TEXT NOT NULL CHECK (token <> ''),
		UNIQUE(utterance_id, position)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_gloss_tokens_utterance ON gloss_tokens (utterance_id, position)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
