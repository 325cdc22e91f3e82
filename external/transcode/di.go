package transcode

import (
	"github.com/samber/do/v2"
	"github.com/signwavelab/glossa/internal/config"
	"github.com/signwavelab/glossa/internal/transcode"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcode.Transcoder, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewFFmpegTranscoder(cfg.FFmpegPath), nil
	})
}
