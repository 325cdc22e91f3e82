package config

import (
	"fmt"
	"time"
)

const (
	WhisperBackendExec        = "exec"
	WhisperBackendCloudSpeech = "cloudspeech"
)

type Config struct {
	Env             string
	ListenAddr      string
	DatabaseURL     string
	DefaultLanguage string

	OutputDir         string
	AudioContainerExt string

	FFmpegPath string

	WhisperBackend string
	WhisperCommand string

	ClassifierCommand string
	ClassifierBlankID int

	StopwordsPath string

	MaxAudioBytes         int64
	ReceiveIdleTimeoutSec int

	ResultWebhookURL        string
	ResultWebhookTimeoutSec int

	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	GoogleCloudSpeechLocation  string
	GoogleCloudSpeechModel     string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	switch c.WhisperBackend {
	case WhisperBackendExec:
		if c.WhisperCommand == "" {
			return fmt.Errorf("WHISPER_COMMAND is required when WHISPER_BACKEND=exec")
		}
	case WhisperBackendCloudSpeech:
		if c.GoogleCloudProjectID == "" || c.GoogleCloudCredentialsJSON == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT_ID and GOOGLE_CLOUD_CREDENTIALS_JSON are required when WHISPER_BACKEND=cloudspeech")
		}
	default:
		return fmt.Errorf("WHISPER_BACKEND must be %q or %q, got %q", WhisperBackendExec, WhisperBackendCloudSpeech, c.WhisperBackend)
	}
	if c.ClassifierCommand == "" {
		return fmt.Errorf("CTC_CLASSIFIER_COMMAND is required")
	}
	if c.ClassifierBlankID < 0 {
		return fmt.Errorf("CTC_BLANK_ID must be non-negative, got %d", c.ClassifierBlankID)
	}
	if c.MaxAudioBytes <= 0 {
		return fmt.Errorf("MAX_AUDIO_BYTES must be positive, got %d", c.MaxAudioBytes)
	}
	if c.ReceiveIdleTimeoutSec <= 0 {
		return fmt.Errorf("RECEIVE_IDLE_TIMEOUT_SEC must be positive, got %d", c.ReceiveIdleTimeoutSec)
	}
	if c.ResultWebhookTimeoutSec <= 0 {
		return fmt.Errorf("RESULT_WEBHOOK_TIMEOUT_SEC must be positive, got %d", c.ResultWebhookTimeoutSec)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "LISTEN_ADDR", value: c.ListenAddr},
		{name: "DATABASE_URL", value: c.DatabaseURL},
		{name: "DEFAULT_LANGUAGE", value: c.DefaultLanguage},
		{name: "OUTPUT_DIR", value: c.OutputDir},
		{name: "AUDIO_CONTAINER_EXT", value: c.AudioContainerExt},
		{name: "FFMPEG_PATH", value: c.FFmpegPath},
	}
}

func (c *Config) ReceiveIdleTimeout() time.Duration {
	return time.Duration(c.ReceiveIdleTimeoutSec) * time.Second
}

func (c *Config) WebhookTimeout() time.Duration {
	return time.Duration(c.ResultWebhookTimeoutSec) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
