package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/signwavelab/glossa/internal/engine"
)

// ExecFrameClassifier runs the recurrent acoustic model as a sidecar process.
// It streams the log-mel feature matrix as JSON to the sidecar's stdin and
// reads back the (time, vocabulary) probability matrix.
type ExecFrameClassifier struct {
	cmd []string
}

type classifierRequest struct {
	Features [][]float64 `json:"features"`
}

type classifierResponse struct {
	Vocabulary    []string    `json:"vocabulary"`
	Probabilities [][]float64 `json:"probabilities"`
}

func NewExecFrameClassifier(command string) (*ExecFrameClassifier, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse classifier command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("classifier command is empty")
	}
	return &ExecFrameClassifier{cmd: args}, nil
}

func (c *ExecFrameClassifier) Classify(ctx context.Context, features [][]float64) (engine.FrameClassification, error) {
	payload, err := json.Marshal(classifierRequest{Features: features})
	if err != nil {
		return engine.FrameClassification{}, fmt.Errorf("encode classifier request: %w", err)
	}

	command := newCommand(ctx, c.cmd)
	command.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr
	if err := command.Run(); err != nil {
		return engine.FrameClassification{}, fmt.Errorf("classifier command failed: %w: %s", err, stderr.String())
	}

	var resp classifierResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return engine.FrameClassification{}, fmt.Errorf("decode classifier response: %w", err)
	}
	if len(resp.Vocabulary) == 0 {
		return engine.FrameClassification{}, fmt.Errorf("classifier returned empty vocabulary")
	}
	return engine.FrameClassification{
		Vocabulary:    resp.Vocabulary,
		Probabilities: resp.Probabilities,
	}, nil
}
