package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/signwavelab/glossa/internal/repository"
)

type fakeRepo struct {
	sessions   []repository.Session
	utterances map[string][]repository.Utterance
	tokens     map[string][]repository.GlossToken

	deleted []string

	lastListLimit int
}

func (f *fakeRepo) CreateSession(context.Context, repository.CreateSessionInput) (*repository.Session, error) {
	return nil, nil
}

func (f *fakeRepo) CompleteSession(context.Context, repository.CompleteSessionInput) error {
	return nil
}

func (f *fakeRepo) GetSession(_ context.Context, sessionID string) (*repository.Session, error) {
	for i := range f.sessions {
		if f.sessions[i].ID == sessionID {
			return &f.sessions[i], nil
		}
	}
	return nil, repository.ErrSessionNotFound
}

func (f *fakeRepo) ListSessions(_ context.Context, limit int) ([]repository.Session, error) {
	f.lastListLimit = limit
	if limit > len(f.sessions) {
		limit = len(f.sessions)
	}
	return f.sessions[:limit], nil
}

func (f *fakeRepo) DeleteSession(_ context.Context, sessionID string) error {
	for _, s := range f.sessions {
		if s.ID == sessionID {
			f.deleted = append(f.deleted, sessionID)
			return nil
		}
	}
	return repository.ErrSessionNotFound
}

func (f *fakeRepo) CreateUtterance(context.Context, repository.CreateUtteranceInput) (*repository.Utterance, error) {
	return nil, nil
}

func (f *fakeRepo) ListUtterancesBySession(_ context.Context, sessionID string) ([]repository.Utterance, error) {
	return f.utterances[sessionID], nil
}

func (f *fakeRepo) ListGlossTokens(_ context.Context, utteranceID string) ([]repository.GlossToken, error) {
	return f.tokens[utteranceID], nil
}

func newAPIFixture() (*fakeRepo, http.Handler) {
	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ended := started.Add(30 * time.Second)
	repo := &fakeRepo{
		sessions: []repository.Session{
			{ID: "sess-1", Language: "en-US", Status: repository.SessionStatusDone, StartedAt: started, EndedAt: &ended},
			{ID: "sess-2", Language: "en-US", Status: repository.SessionStatusRecording, StartedAt: started},
		},
		utterances: map[string][]repository.Utterance{
			"sess-1": {{
				ID:         "utt-1",
				SessionID:  "sess-1",
				Transcript: "the cat sat",
				AudioPath:  "audio/a.webm",
				JSONPath:   "json/a.json",
				CreatedAt:  started.Add(10 * time.Second),
			}},
		},
		tokens: map[string][]repository.GlossToken{
			"utt-1": {
				{ID: 1, UtteranceID: "utt-1", Position: 0, Token: "CAT"},
				{ID: 2, UtteranceID: "utt-1", Position: 1, Token: "SAT"},
			},
		},
	}
	server := NewServer("127.0.0.1:0", nil, repo)
	return repo, server.httpServer.Handler
}

func TestHandleHistory(t *testing.T) {
	repo, handler := newAPIFixture()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history?limit=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if repo.lastListLimit != 1 {
		t.Fatalf("expected limit 1 forwarded to repository, got %d", repo.lastListLimit)
	}
	var out []sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ID != "sess-1" {
		t.Fatalf("unexpected history payload %+v", out)
	}
	if len(out[0].Utterances) != 1 {
		t.Fatalf("expected one utterance, got %+v", out[0].Utterances)
	}
	gloss := out[0].Utterances[0].Gloss
	if len(gloss) != 2 || gloss[0] != "CAT" || gloss[1] != "SAT" {
		t.Fatalf("unexpected gloss %v", gloss)
	}
}

func TestHandleHistory_DefaultLimit(t *testing.T) {
	repo, handler := newAPIFixture()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if repo.lastListLimit != defaultHistoryLimit {
		t.Fatalf("expected default limit %d, got %d", defaultHistoryLimit, repo.lastListLimit)
	}
}

func TestHandleHistory_InvalidLimit(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-3"} {
		_, handler := newAPIFixture()
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history?limit="+raw, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("limit %q: expected status 400, got %d", raw, rec.Code)
		}
	}
}

func TestHandleSessionDetail(t *testing.T) {
	_, handler := newAPIFixture()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/sess-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var out sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID != "sess-1" || out.Status != "done" {
		t.Fatalf("unexpected session payload %+v", out)
	}
	if out.EndedAt == nil {
		t.Fatal("expected ended_at to be set")
	}
	if out.Utterances[0].Transcript != "the cat sat" {
		t.Fatalf("unexpected transcript %q", out.Utterances[0].Transcript)
	}
}

func TestHandleSessionDetail_NotFound(t *testing.T) {
	_, handler := newAPIFixture()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	var out errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Error != "session not found" {
		t.Fatalf("unexpected error payload %q", out.Error)
	}
}

func TestHandleSessionDelete(t *testing.T) {
	repo, handler := newAPIFixture()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/session/sess-1", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "sess-1" {
		t.Fatalf("unexpected deletions %v", repo.deleted)
	}
}

func TestHandleSessionDelete_NotFound(t *testing.T) {
	_, handler := newAPIFixture()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/session/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	_, handler := newAPIFixture()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
