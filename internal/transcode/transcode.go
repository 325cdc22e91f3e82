// Package transcode defines the container-to-PCM collaborator contract.
package transcode

import "context"

// Transcoder decodes container-encoded audio bytes to normalized mono float
// PCM at the returned sample rate.
type Transcoder interface {
	Decode(ctx context.Context, container []byte) (pcm []float32, sampleRate int, err error)
}
