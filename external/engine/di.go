package engine

import (
	"context"
	"os/exec"
	"time"

	"github.com/samber/do/v2"
	"github.com/signwavelab/glossa/internal/config"
	"github.com/signwavelab/glossa/internal/dsp"
	"github.com/signwavelab/glossa/internal/engine"
)

const cloudSpeechInitTimeout = 20 * time.Second

func newCommand(ctx context.Context, args []string) *exec.Cmd {
	return exec.CommandContext(ctx, args[0], args[1:]...)
}

// RegisterDI wires both engine variants. Construction happens exactly once;
// the registry hands the shared instances to every session.
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*dsp.FeatureExtractor, error) {
		return dsp.NewFeatureExtractor(dsp.DefaultSampleRate, dsp.DefaultNumMels), nil
	})

	do.Provide(injector, func(i do.Injector) (*engine.Registry, error) {
		cfg := do.MustInvoke[*config.Config](i)
		extractor := do.MustInvoke[*dsp.FeatureExtractor](i)

		var whisper engine.Engine
		switch cfg.WhisperBackend {
		case config.WhisperBackendCloudSpeech:
			ctx, cancel := context.WithTimeout(context.Background(), cloudSpeechInitTimeout)
			defer cancel()
			cs, err := NewCloudSpeechEngine(ctx, CloudSpeechConfig{
				ProjectID:       cfg.GoogleCloudProjectID,
				CredentialsJSON: cfg.GoogleCloudCredentialsJSON,
				Location:        cfg.GoogleCloudSpeechLocation,
				Model:           cfg.GoogleCloudSpeechModel,
			})
			if err != nil {
				return nil, err
			}
			whisper = cs
		default:
			ex, err := NewExecWhisperEngine(cfg.WhisperCommand)
			if err != nil {
				return nil, err
			}
			whisper = ex
		}

		classifier, err := NewExecFrameClassifier(cfg.ClassifierCommand)
		if err != nil {
			return nil, err
		}
		ctc := engine.NewFrameClassifierEngine(extractor, classifier, cfg.ClassifierBlankID)

		return engine.NewRegistry(whisper, ctc), nil
	})
}
