package session

const (
	messageTypeSession = "session"
	messageTypeResult  = "result"
	messageTypeError   = "error"

	// Normalized control value that ends the receive phase.
	controlEnd = "end"
)

type sessionMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

type resultMessage struct {
	Type        string   `json:"type"`
	SessionID   string   `json:"session_id"`
	UtteranceID string   `json:"utterance_id"`
	Transcript  string   `json:"transcript"`
	Confidence  *float64 `json:"confidence,omitempty"`
	Gloss       []string `json:"gloss"`
	AudioPath   string   `json:"audio_path"`
	JSONPath    string   `json:"json_path"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
