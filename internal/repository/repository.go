package repository

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned by lookups and updates that reference a
// session id with no matching row.
var ErrSessionNotFound = errors.New("session not found")

type CreateSessionInput struct {
	Language string
}

type CompleteSessionInput struct {
	SessionID string
	Status    SessionStatus
}

type CreateUtteranceInput struct {
	SessionID  string
	Transcript string
	Gloss      []string
	AudioPath  string
	JSONPath   string
}

type SessionRepository interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*Session, error)
	CompleteSession(ctx context.Context, input CompleteSessionInput) error
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	ListSessions(ctx context.Context, limit int) ([]Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type UtteranceRepository interface {
	// CreateUtterance persists the utterance row and one gloss token row per
	// gloss entry (position = slice index) in a single transaction.
	CreateUtterance(ctx context.Context, input CreateUtteranceInput) (*Utterance, error)
	ListUtterancesBySession(ctx context.Context, sessionID string) ([]Utterance, error)
	ListGlossTokens(ctx context.Context, utteranceID string) ([]GlossToken, error)
}

type Repository interface {
	SessionRepository
	UtteranceRepository
}
