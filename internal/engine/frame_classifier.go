package engine

import (
	"context"
	"fmt"

	"github.com/signwavelab/glossa/internal/dsp"
)

// FrameClassification is the raw output of the acoustic frame classifier:
// one row of per-symbol probabilities per feature frame, plus the vocabulary
// the columns index into.
type FrameClassification struct {
	Probabilities [][]float64
	Vocabulary    []string
}

// FrameClassifier is the opaque recurrent model behind the ctc engine. The
// classifier is loaded once per process; Classify must be safe for
// concurrent use.
type FrameClassifier interface {
	Classify(ctx context.Context, features [][]float64) (FrameClassification, error)
}

// FrameClassifierEngine composes feature extraction, the opaque frame
// classifier, and greedy collapse decoding into one Engine.
type FrameClassifierEngine struct {
	extractor  *dsp.FeatureExtractor
	classifier FrameClassifier
	blankID    int
}

func NewFrameClassifierEngine(extractor *dsp.FeatureExtractor, classifier FrameClassifier, blankID int) *FrameClassifierEngine {
	return &FrameClassifierEngine{
		extractor:  extractor,
		classifier: classifier,
		blankID:    blankID,
	}
}

// Transcribe ignores the language hint: the classifier's vocabulary fixes
// its language.
func (e *FrameClassifierEngine) Transcribe(ctx context.Context, pcm []float32, sampleRate int, _ string) (Result, error) {
	features, err := e.extractor.Extract([][]float32{pcm}, sampleRate)
	if err != nil {
		return Result{}, fmt.Errorf("extract features: %w", err)
	}

	classification, err := e.classifier.Classify(ctx, features)
	if err != nil {
		return Result{}, fmt.Errorf("classify frames: %w", err)
	}

	decoded, err := dsp.GreedyCollapseDecode(classification.Probabilities, classification.Vocabulary, e.blankID)
	if err != nil {
		return Result{}, fmt.Errorf("greedy collapse decode: %w", err)
	}
	return Result{
		Text:          decoded.Text,
		Confidence:    decoded.Confidence,
		HasConfidence: true,
	}, nil
}
