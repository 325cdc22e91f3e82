package engine

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"

	"cloud.google.com/go/auth/credentials"
	speech "cloud.google.com/go/speech/apiv2"
	speechpb "cloud.google.com/go/speech/apiv2/speechpb"
	"github.com/signwavelab/glossa/internal/engine"
	"google.golang.org/api/option"
)

const speechAPIEndpointPort = 443

type CloudSpeechConfig struct {
	ProjectID       string
	CredentialsJSON string
	Location        string
	Model           string
}

// CloudSpeechEngine is a sequence-engine backend using Google Cloud Speech v2
// batch recognition. The gRPC client is built once at startup and shared by
// all sessions.
type CloudSpeechEngine struct {
	client    *speech.Client
	projectID string
	location  string
	model     string
}

func NewCloudSpeechEngine(ctx context.Context, cfg CloudSpeechConfig) (*CloudSpeechEngine, error) {
	location := strings.TrimSpace(cfg.Location)
	if location == "" {
		location = "global"
	}

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(cfg.CredentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return nil, fmt.Errorf("detect credentials: %w", err)
	}

	opts := []option.ClientOption{
		option.WithAuthCredentials(creds),
	}
	if location != "global" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-speech.googleapis.com:%d", location, speechAPIEndpointPort)))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	return &CloudSpeechEngine{
		client:    client,
		projectID: cfg.ProjectID,
		location:  location,
		model:     strings.TrimSpace(cfg.Model),
	}, nil
}

func (e *CloudSpeechEngine) Transcribe(ctx context.Context, pcm []float32, sampleRate int, language string) (engine.Result, error) {
	resp, err := e.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Recognizer: fmt.Sprintf("projects/%s/locations/%s/recognizers/_", e.projectID, e.location),
		Config: &speechpb.RecognitionConfig{
			DecodingConfig: &speechpb.RecognitionConfig_ExplicitDecodingConfig{
				ExplicitDecodingConfig: &speechpb.ExplicitDecodingConfig{
					Encoding:          speechpb.ExplicitDecodingConfig_LINEAR16,
					SampleRateHertz:   int32(sampleRate),
					AudioChannelCount: 1,
				},
			},
			Model:         e.model,
			LanguageCodes: []string{language},
		},
		AudioSource: &speechpb.RecognizeRequest_Content{Content: pcmToLinear16(pcm)},
	})
	if err != nil {
		return engine.Result{}, fmt.Errorf("cloud speech recognize: %w", err)
	}

	parts := make([]string, 0, len(resp.GetResults()))
	for _, result := range resp.GetResults() {
		alternatives := result.GetAlternatives()
		if len(alternatives) == 0 {
			continue
		}
		parts = append(parts, alternatives[0].GetTranscript())
	}
	return engine.Result{Text: strings.TrimSpace(strings.Join(parts, " "))}, nil
}

func (e *CloudSpeechEngine) Close() error {
	return e.client.Close()
}

func pcmToLinear16(pcm []float32) []byte {
	out := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		v := int(s * 32767)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v)))
	}
	return out
}
