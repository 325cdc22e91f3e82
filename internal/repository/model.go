package repository

import "time"

type SessionStatus string

const (
	SessionStatusRecording SessionStatus = "recording"
	SessionStatusDone      SessionStatus = "done"
	SessionStatusError     SessionStatus = "error"
)

type Session struct {
	ID        string
	Language  string
	Status    SessionStatus
	StartedAt time.Time
	EndedAt   *time.Time
}

type Utterance struct {
	ID         string
	SessionID  string
	Transcript string
	AudioPath  string
	JSONPath   string
	CreatedAt  time.Time
}

type GlossToken struct {
	ID          int64
	UtteranceID string
	Position    int
	Token       string
}
