package session

import "fmt"

// FailureKind classifies where in the pipeline a session failed. Every phase
// returns at most one Failure; a single adapter at the top of the session
// task converts it into the one outward error frame.
type FailureKind string

const (
	FailureConfiguration FailureKind = "configuration"
	FailureEmptyAudio    FailureKind = "empty_audio"
	FailureLimitExceeded FailureKind = "limit_exceeded"
	FailureIdleTimeout   FailureKind = "idle_timeout"
	FailureTranscode     FailureKind = "transcode"
	FailureEngine        FailureKind = "engine"
	FailureArtifact      FailureKind = "artifact"
	FailurePersistence   FailureKind = "persistence"
)

// Failure pairs a failure kind with its underlying cause. Message() is what
// the client sees; Err stays in the logs.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Kind, f.Err)
	}
	return string(f.Kind)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func (f *Failure) Message() string {
	switch f.Kind {
	case FailureConfiguration:
		if f.Err != nil {
			return f.Err.Error()
		}
		return "invalid session configuration"
	case FailureEmptyAudio:
		return "No audio received"
	case FailureLimitExceeded:
		return "audio stream exceeds the maximum allowed size"
	case FailureIdleTimeout:
		return "no frames received before the idle timeout"
	case FailureTranscode:
		return "failed to decode audio"
	case FailureEngine:
		return "transcription failed"
	case FailureArtifact:
		return "failed to save session artifacts"
	case FailurePersistence:
		return "failed to persist transcription result"
	default:
		return "internal error"
	}
}

func newFailure(kind FailureKind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}
