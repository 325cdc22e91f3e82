// Package engine defines the acoustic engine abstraction. Engines are
// expensive to construct and are built exactly once at startup; a Registry
// hands the shared instances to every session task.
package engine

import (
	"context"
	"fmt"
)

// Kind is the closed set of engine variants selectable per session.
type Kind string

const (
	KindWhisper Kind = "whisper"
	KindCTC     Kind = "ctc"
)

// UnknownKindError reports a model tag outside the closed variant set.
// Unknown tags are rejected at connect time, never silently defaulted.
type UnknownKindError struct {
	Tag string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown engine %q (supported: %s, %s)", e.Tag, KindWhisper, KindCTC)
}

// ParseKind resolves a caller-supplied model tag once per session. An empty
// tag selects the sequence engine.
func ParseKind(tag string) (Kind, error) {
	switch tag {
	case "", string(KindWhisper):
		return KindWhisper, nil
	case string(KindCTC):
		return KindCTC, nil
	default:
		return "", &UnknownKindError{Tag: tag}
	}
}

// Result is one finished transcription. HasConfidence is set by the
// frame-classifier engine, whose decoder produces a calibrated score; the
// sequence engine is opaque and reports none.
type Result struct {
	Text          string
	Confidence    float64
	HasConfidence bool
}

// Engine transcribes mono PCM. Implementations hold no per-call mutable
// state so concurrent sessions may share one instance.
type Engine interface {
	Transcribe(ctx context.Context, pcm []float32, sampleRate int, language string) (Result, error)
}

// Registry holds the process-wide engine singletons.
type Registry struct {
	whisper Engine
	ctc     Engine
}

func NewRegistry(whisper, ctc Engine) *Registry {
	return &Registry{whisper: whisper, ctc: ctc}
}

func (r *Registry) Select(kind Kind) (Engine, error) {
	switch kind {
	case KindWhisper:
		return r.whisper, nil
	case KindCTC:
		return r.ctc, nil
	default:
		return nil, &UnknownKindError{Tag: string(kind)}
	}
}
