package transcode

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os/exec"

	"github.com/signwavelab/glossa/internal/transcode"
)

const targetSampleRate = 16000

// FFmpegTranscoder pipes container bytes through ffmpeg to 16 kHz mono
// s16le PCM, entirely in memory.
type FFmpegTranscoder struct {
	ffmpegPath string
}

func NewFFmpegTranscoder(ffmpegPath string) transcode.Transcoder {
	return &FFmpegTranscoder{ffmpegPath: ffmpegPath}
}

func (t *FFmpegTranscoder) Decode(ctx context.Context, container []byte) ([]float32, int, error) {
	cmd := exec.CommandContext(ctx, t.ffmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", targetSampleRate),
		"pipe:1",
	)
	cmd.Stdin = bytes.NewReader(container)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, 0, fmt.Errorf("ffmpeg decode failed: %w: %s", err, stderr.String())
	}

	raw := stdout.Bytes()
	if len(raw)%2 != 0 {
		raw = raw[:len(raw)-1]
	}
	pcm := make([]float32, len(raw)/2)
	for i := range pcm {
		sample := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		pcm[i] = float32(sample) / 32768.0
	}
	return pcm, targetSampleRate, nil
}
