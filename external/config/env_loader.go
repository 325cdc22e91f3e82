package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/signwavelab/glossa/internal/config"
)

type envConfig struct {
	Env             string `env:"ENV" envDefault:"production"`
	ListenAddr      string `env:"LISTEN_ADDR" envDefault:":8080"`
	DatabaseURL     string `env:"DATABASE_URL,required"`
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"en"`

	OutputDir         string `env:"OUTPUT_DIR" envDefault:"outputs"`
	AudioContainerExt string `env:"AUDIO_CONTAINER_EXT" envDefault:"webm"`

	FFmpegPath string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`

	WhisperBackend string `env:"WHISPER_BACKEND" envDefault:"exec"`
	WhisperCommand string `env:"WHISPER_COMMAND"`

	ClassifierCommand string `env:"CTC_CLASSIFIER_COMMAND"`
	ClassifierBlankID int    `env:"CTC_BLANK_ID" envDefault:"0"`

	StopwordsPath string `env:"STOPWORDS_PATH"`

	MaxAudioBytes         int64 `env:"MAX_AUDIO_BYTES" envDefault:"52428800"`
	ReceiveIdleTimeoutSec int   `env:"RECEIVE_IDLE_TIMEOUT_SEC" envDefault:"120"`

	ResultWebhookURL        string `env:"RESULT_WEBHOOK_URL"`
	ResultWebhookTimeoutSec int    `env:"RESULT_WEBHOOK_TIMEOUT_SEC" envDefault:"10"`

	GoogleCloudProjectID       string `env:"GOOGLE_CLOUD_PROJECT_ID"`
	GoogleCloudCredentialsJSON string `env:"GOOGLE_CLOUD_CREDENTIALS_JSON"`
	GoogleCloudSpeechLocation  string `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"global"`
	GoogleCloudSpeechModel     string `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"chirp_3"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                        raw.Env,
		ListenAddr:                 raw.ListenAddr,
		DatabaseURL:                raw.DatabaseURL,
		DefaultLanguage:            raw.DefaultLanguage,
		OutputDir:                  raw.OutputDir,
		AudioContainerExt:          raw.AudioContainerExt,
		FFmpegPath:                 raw.FFmpegPath,
		WhisperBackend:             raw.WhisperBackend,
		WhisperCommand:             raw.WhisperCommand,
		ClassifierCommand:          raw.ClassifierCommand,
		ClassifierBlankID:          raw.ClassifierBlankID,
		StopwordsPath:              raw.StopwordsPath,
		MaxAudioBytes:              raw.MaxAudioBytes,
		ReceiveIdleTimeoutSec:      raw.ReceiveIdleTimeoutSec,
		ResultWebhookURL:           raw.ResultWebhookURL,
		ResultWebhookTimeoutSec:    raw.ResultWebhookTimeoutSec,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:  raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:     raw.GoogleCloudSpeechModel,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
