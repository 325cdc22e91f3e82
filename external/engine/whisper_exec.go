package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	shellwords "github.com/mattn/go-shellwords"
	"github.com/signwavelab/glossa/internal/engine"
)

// ExecWhisperEngine shells out to a locally installed whisper CLI for each
// utterance. The command is parsed once at startup; every call writes the PCM
// to a temp WAV, invokes the CLI, and decodes its JSON output.
type ExecWhisperEngine struct {
	cmd []string
}

type execTranscribeResult struct {
	Text string `json:"text"`
}

func NewExecWhisperEngine(command string) (*ExecWhisperEngine, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse whisper command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("whisper command is empty")
	}
	return &ExecWhisperEngine{cmd: args}, nil
}

func (e *ExecWhisperEngine) Transcribe(ctx context.Context, pcm []float32, sampleRate int, language string) (engine.Result, error) {
	file, err := os.CreateTemp("", "glossa_whisper_*.wav")
	if err != nil {
		return engine.Result{}, fmt.Errorf("temp wav: %w", err)
	}
	defer func() {
		_ = file.Close()
		_ = os.Remove(file.Name())
	}()

	if err := writePCMToWav(file, pcm, sampleRate); err != nil {
		return engine.Result{}, err
	}

	args := append([]string{}, e.cmd[1:]...)
	args = append(args, "--audio", file.Name())
	if language != "" {
		args = append(args, "--language", language)
	}

	command := exec.CommandContext(ctx, e.cmd[0], args...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr
	if err := command.Run(); err != nil {
		return engine.Result{}, fmt.Errorf("whisper command failed: %w: %s", err, stderr.String())
	}

	var resp execTranscribeResult
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return engine.Result{}, fmt.Errorf("decode whisper response: %w", err)
	}
	// The sequence engine is opaque and reports no calibrated confidence.
	return engine.Result{Text: resp.Text}, nil
}

func writePCMToWav(file *os.File, pcm []float32, sampleRate int) error {
	buffer := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:   make([]int, len(pcm)),
	}
	for i, s := range pcm {
		v := int(s * 32767)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		buffer.Data[i] = v
	}

	enc := wav.NewEncoder(file, sampleRate, 16, 1, 1)
	if err := enc.Write(buffer); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}
