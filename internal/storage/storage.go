// Package storage defines persistence of per-utterance artifacts: the raw
// audio blob and a denormalized JSON summary mirroring the relational rows.
package storage

// ResultSummary is the derived JSON artifact written next to each utterance.
type ResultSummary struct {
	SessionID  string   `json:"session_id"`
	CreatedAt  string   `json:"created_at"`
	Language   string   `json:"language"`
	Transcript string   `json:"transcript"`
	Gloss      []string `json:"gloss"`
}

type ArtifactStore interface {
	// SaveAudio writes raw container bytes under a random unique filename
	// and returns its path.
	SaveAudio(audio []byte, ext string) (string, error)
	// SaveResultJSON writes the summary document and returns its path.
	SaveResultJSON(summary ResultSummary) (string, error)
}
