package storage

import (
	"github.com/samber/do/v2"
	"github.com/signwavelab/glossa/internal/config"
	"github.com/signwavelab/glossa/internal/storage"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (storage.ArtifactStore, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewLocalStore(cfg.OutputDir)
	})
}
