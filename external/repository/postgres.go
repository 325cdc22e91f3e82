package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/signwavelab/glossa/internal/repository"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) CreateSession(ctx context.Context, input repository.CreateSessionInput) (*repository.Session, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO sessions (language, status)
		 VALUES ($1, 'recording')
		 RETURNING id, language, status, started_at, ended_at`,
		input.Language)
	return scanSession(row)
}

func (r *PostgresRepository) CompleteSession(ctx context.Context, input repository.CompleteSessionInput) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sessions SET status = $2, ended_at = $3 WHERE id = $1`,
		input.SessionID, string(input.Status), time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrSessionNotFound
	}
	return nil
}

func (r *PostgresRepository) GetSession(ctx context.Context, sessionID string) (*repository.Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, language, status, started_at, ended_at
		 FROM sessions WHERE id = $1`,
		sessionID)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) ListSessions(ctx context.Context, limit int) ([]repository.Session, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, language, status, started_at, ended_at
		 FROM sessions ORDER BY started_at DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.Session
	for rows.Next() {
		var s repository.Session
		var endedAt *time.Time
		if err := rows.Scan(&s.ID, &s.Language, &s.Status, &s.StartedAt, &endedAt); err != nil {
			return nil, err
		}
		s.EndedAt = endedAt
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) DeleteSession(ctx context.Context, sessionID string) error {
	// Utterance and gloss token rows go with the session via ON DELETE CASCADE.
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrSessionNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateUtterance(ctx context.Context, input repository.CreateUtteranceInput) (*repository.Utterance, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin utterance transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	row := tx.QueryRow(ctx,
		`INSERT INTO utterances (session_id, transcript, audio_path, json_path)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, session_id, transcript, audio_path, json_path, created_at`,
		input.SessionID, input.Transcript, input.AudioPath, input.JSONPath)
	var u repository.Utterance
	if err := row.Scan(&u.ID, &u.SessionID, &u.Transcript, &u.AudioPath, &u.JSONPath, &u.CreatedAt); err != nil {
		return nil, err
	}

	for i, token := range input.Gloss {
		if _, err := tx.Exec(ctx,
			`INSERT INTO gloss_tokens (utterance_id, position, token) VALUES ($1, $2, $3)`,
			u.ID, i, token); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit utterance transaction: %w", err)
	}
	return &u, nil
}

func (r *PostgresRepository) ListUtterancesBySession(ctx context.Context, sessionID string) ([]repository.Utterance, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, transcript, audio_path, json_path, created_at
		 FROM utterances WHERE session_id = $1 ORDER BY created_at DESC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.Utterance
	for rows.Next() {
		var u repository.Utterance
		if err := rows.Scan(&u.ID, &u.SessionID, &u.Transcript, &u.AudioPath, &u.JSONPath, &u.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) ListGlossTokens(ctx context.Context, utteranceID string) ([]repository.GlossToken, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, utterance_id, position, token
		 FROM gloss_tokens WHERE utterance_id = $1 ORDER BY position ASC`,
		utteranceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.GlossToken
	for rows.Next() {
		var t repository.GlossToken
		if err := rows.Scan(&t.ID, &t.UtteranceID, &t.Position, &t.Token); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanSession(row pgx.Row) (*repository.Session, error) {
	var s repository.Session
	var endedAt *time.Time
	if err := row.Scan(&s.ID, &s.Language, &s.Status, &s.StartedAt, &endedAt); err != nil {
		return nil, err
	}
	s.EndedAt = endedAt
	return &s, nil
}
