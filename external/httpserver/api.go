package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/signwavelab/glossa/internal/repository"
)

const defaultHistoryLimit = 20

type utteranceResponse struct {
	ID         string   `json:"id"`
	SessionID  string   `json:"session_id"`
	CreatedAt  string   `json:"created_at"`
	Transcript string   `json:"transcript"`
	Gloss      []string `json:"gloss"`
	AudioPath  string   `json:"audio_path"`
	JSONPath   string   `json:"json_path"`
}

type sessionResponse struct {
	ID         string              `json:"id"`
	Language   string              `json:"language"`
	Status     string              `json:"status"`
	StartedAt  string              `json:"started_at"`
	EndedAt    *string             `json:"ended_at"`
	Utterances []utteranceResponse `json:"utterances"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	sessions, err := s.repo.ListSessions(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list sessions", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list sessions"})
		return
	}

	out := make([]sessionResponse, 0, len(sessions))
	for i := range sessions {
		resp, err := s.buildSessionResponse(r.Context(), &sessions[i])
		if err != nil {
			slog.Error("failed to assemble session history", "error", err, "session_id", sessions[i].ID)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list sessions"})
			return
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSessionDetail(w http.ResponseWriter, r *http.Request) {
	sess, err := s.repo.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
			return
		}
		slog.Error("failed to load session", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load session"})
		return
	}

	resp, err := s.buildSessionResponse(r.Context(), sess)
	if err != nil {
		slog.Error("failed to assemble session detail", "error", err, "session_id", sess.ID)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load session"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	err := s.repo.DeleteSession(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
			return
		}
		slog.Error("failed to delete session", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to delete session"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) buildSessionResponse(ctx context.Context, sess *repository.Session) (sessionResponse, error) {
	utterances, err := s.repo.ListUtterancesBySession(ctx, sess.ID)
	if err != nil {
		return sessionResponse{}, err
	}

	uOut := make([]utteranceResponse, 0, len(utterances))
	for _, u := range utterances {
		tokens, err := s.repo.ListGlossTokens(ctx, u.ID)
		if err != nil {
			return sessionResponse{}, err
		}
		glossOut := make([]string, 0, len(tokens))
		for _, t := range tokens {
			glossOut = append(glossOut, t.Token)
		}
		uOut = append(uOut, utteranceResponse{
			ID:         u.ID,
			SessionID:  u.SessionID,
			CreatedAt:  u.CreatedAt.Format(time.RFC3339),
			Transcript: u.Transcript,
			Gloss:      glossOut,
			AudioPath:  u.AudioPath,
			JSONPath:   u.JSONPath,
		})
	}

	var endedAt *string
	if sess.EndedAt != nil {
		formatted := sess.EndedAt.Format(time.RFC3339)
		endedAt = &formatted
	}
	return sessionResponse{
		ID:         sess.ID,
		Language:   sess.Language,
		Status:     string(sess.Status),
		StartedAt:  sess.StartedAt.Format(time.RFC3339),
		EndedAt:    endedAt,
		Utterances: uOut,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("failed to encode response", "error", err)
	}
}
