package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/signwavelab/glossa/internal/storage"
)

const jsonTimestampLayout = "20060102T150405Z"

// LocalStore writes artifacts under <baseDir>/audio and <baseDir>/json.
type LocalStore struct {
	audioDir string
	jsonDir  string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	audioDir := filepath.Join(baseDir, "audio")
	jsonDir := filepath.Join(baseDir, "json")
	for _, dir := range []string{audioDir, jsonDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
		}
	}
	return &LocalStore{audioDir: audioDir, jsonDir: jsonDir}, nil
}

func (s *LocalStore) SaveAudio(audio []byte, ext string) (string, error) {
	name := fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	path := filepath.Join(s.audioDir, name)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio artifact: %w", err)
	}
	return path, nil
}

func (s *LocalStore) SaveResultJSON(summary storage.ResultSummary) (string, error) {
	if summary.CreatedAt == "" {
		summary.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	b, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result summary: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json", summary.SessionID, time.Now().UTC().Format(jsonTimestampLayout))
	path := filepath.Join(s.jsonDir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write result summary: %w", err)
	}
	return path, nil
}
