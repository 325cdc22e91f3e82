package webhook

import (
	"github.com/samber/do/v2"
	"github.com/signwavelab/glossa/internal/config"
	"github.com/signwavelab/glossa/internal/webhook"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (webhook.Sender, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewHTTPSender(cfg.ResultWebhookURL, cfg.WebhookTimeout()), nil
	})
}
