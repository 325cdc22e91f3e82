package httpserver

import (
	"github.com/samber/do/v2"
	"github.com/signwavelab/glossa/internal/config"
	"github.com/signwavelab/glossa/internal/repository"
	"github.com/signwavelab/glossa/internal/session"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		manager := do.MustInvoke[*session.Manager](i)
		repo := do.MustInvoke[repository.Repository](i)
		return NewServer(cfg.ListenAddr, manager, repo), nil
	})
}
