package session

import (
	"github.com/samber/do/v2"
	"github.com/signwavelab/glossa/internal/config"
	"github.com/signwavelab/glossa/internal/engine"
	"github.com/signwavelab/glossa/internal/gloss"
	"github.com/signwavelab/glossa/internal/metrics"
	"github.com/signwavelab/glossa/internal/repository"
	"github.com/signwavelab/glossa/internal/storage"
	"github.com/signwavelab/glossa/internal/transcode"
	"github.com/signwavelab/glossa/internal/webhook"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*gloss.Extractor, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.StopwordsPath != "" {
			return gloss.NewExtractorFromFile(cfg.StopwordsPath)
		}
		return gloss.NewExtractor(gloss.DefaultStopwords), nil
	})

	do.Provide(injector, func(i do.Injector) (*metrics.Metrics, error) {
		return metrics.NewMetrics(), nil
	})

	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[repository.Repository](i)
		engines := do.MustInvoke[*engine.Registry](i)
		transcoder := do.MustInvoke[transcode.Transcoder](i)
		artifacts := do.MustInvoke[storage.ArtifactStore](i)
		glossExtractor := do.MustInvoke[*gloss.Extractor](i)
		wh := do.MustInvoke[webhook.Sender](i)
		m := do.MustInvoke[*metrics.Metrics](i)
		return NewManager(cfg, repo, engines, transcoder, artifacts, glossExtractor, wh, m), nil
	})
}
