package webhook

import "context"

// ResultPayload mirrors the result frame sent to the client, for downstream
// consumers subscribed via webhook.
type ResultPayload struct {
	SessionID   string   `json:"session_id"`
	UtteranceID string   `json:"utterance_id"`
	Language    string   `json:"language"`
	Transcript  string   `json:"transcript"`
	Gloss       []string `json:"gloss"`
	AudioPath   string   `json:"audio_path"`
	JSONPath    string   `json:"json_path"`
	CompletedAt string   `json:"completed_at"`
}

type Sender interface {
	SendResult(ctx context.Context, payload ResultPayload) error
}
