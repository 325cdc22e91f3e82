// Package session runs one recording interaction end to end: aggregate the
// client's audio stream, decode it, transcribe, extract the gloss, persist,
// and report exactly one result or error frame back.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/signwavelab/glossa/internal/config"
	"github.com/signwavelab/glossa/internal/engine"
	"github.com/signwavelab/glossa/internal/gloss"
	"github.com/signwavelab/glossa/internal/metrics"
	"github.com/signwavelab/glossa/internal/repository"
	"github.com/signwavelab/glossa/internal/storage"
	"github.com/signwavelab/glossa/internal/stream"
	"github.com/signwavelab/glossa/internal/transcode"
	"github.com/signwavelab/glossa/internal/webhook"
)

type Manager struct {
	cfg        *config.Config
	repo       repository.Repository
	engines    *engine.Registry
	transcoder transcode.Transcoder
	artifacts  storage.ArtifactStore
	gloss      *gloss.Extractor
	webhook    webhook.Sender
	metrics    *metrics.Metrics
}

func NewManager(
	cfg *config.Config,
	repo repository.Repository,
	engines *engine.Registry,
	transcoder transcode.Transcoder,
	artifacts storage.ArtifactStore,
	glossExtractor *gloss.Extractor,
	wh webhook.Sender,
	m *metrics.Metrics,
) *Manager {
	return &Manager{
		cfg:        cfg,
		repo:       repo,
		engines:    engines,
		transcoder: transcoder,
		artifacts:  artifacts,
		gloss:      glossExtractor,
		webhook:    wh,
		metrics:    m,
	}
}

// HandleConnection owns one client connection from accept to close. It is
// run on its own goroutine per connection; nothing here is shared mutable
// state except the injected singletons, which are all reentrant.
func (m *Manager) HandleConnection(ctx context.Context, conn stream.Conn, modelTag string) {
	kind, err := engine.ParseKind(modelTag)
	if err != nil {
		slog.Warn("rejecting session with unknown engine tag", "model", modelTag)
		m.sendError(conn, newFailure(FailureConfiguration, err))
		return
	}
	eng, err := m.engines.Select(kind)
	if err != nil {
		m.sendError(conn, newFailure(FailureConfiguration, err))
		return
	}

	sess, err := m.repo.CreateSession(ctx, repository.CreateSessionInput{Language: m.cfg.DefaultLanguage})
	if err != nil {
		slog.Error("failed to create session", "error", err)
		m.sendError(conn, newFailure(FailurePersistence, err))
		return
	}
	slog.Info("session started", "session_id", sess.ID, "engine", kind, "language", sess.Language)
	m.metrics.SessionsStarted.Inc()
	m.metrics.ActiveSessions.Inc()
	defer m.metrics.ActiveSessions.Dec()

	if err := conn.SendJSON(sessionMessage{Type: messageTypeSession, SessionID: sess.ID}); err != nil {
		slog.Warn("failed to send session frame", "error", err, "session_id", sess.ID)
		return
	}

	aggregator := &Aggregator{
		MaxBytes:    m.cfg.MaxAudioBytes,
		IdleTimeout: m.cfg.ReceiveIdleTimeout(),
	}
	agg, failure := aggregator.Run(ctx, conn)
	if failure != nil {
		m.failSession(ctx, conn, sess, failure)
		return
	}
	if !agg.Completed {
		// Disconnect before "end": abandon without committing an utterance.
		slog.Info("client disconnected before end of stream", "session_id", sess.ID, "buffered_bytes", len(agg.Audio))
		return
	}
	m.metrics.AudioBytesReceived.Add(float64(len(agg.Audio)))
	m.metrics.AudioFramesDropped.Add(float64(agg.IgnoredFrames))

	if len(agg.Audio) == 0 {
		m.failSession(ctx, conn, sess, newFailure(FailureEmptyAudio, nil))
		return
	}

	if failure := m.process(ctx, conn, sess, eng, kind, agg.Audio); failure != nil {
		m.failSession(ctx, conn, sess, failure)
	}
}

// process runs the post-receive phases. Each phase-local error is converted
// to a typed failure at its boundary; the first failure stops the pipeline.
func (m *Manager) process(ctx context.Context, conn stream.Conn, sess *repository.Session, eng engine.Engine, kind engine.Kind, audio []byte) *Failure {
	audioPath, err := m.artifacts.SaveAudio(audio, m.cfg.AudioContainerExt)
	if err != nil {
		return newFailure(FailureArtifact, err)
	}

	pcm, sampleRate, err := m.transcoder.Decode(ctx, audio)
	if err != nil {
		return newFailure(FailureTranscode, err)
	}

	start := time.Now()
	result, err := eng.Transcribe(ctx, pcm, sampleRate, sess.Language)
	if err != nil {
		return newFailure(FailureEngine, err)
	}
	m.metrics.TranscribeDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	tokens := m.gloss.Extract(result.Text)
	m.metrics.GlossTokens.Observe(float64(len(tokens)))

	jsonPath, err := m.artifacts.SaveResultJSON(storage.ResultSummary{
		SessionID:  sess.ID,
		Language:   sess.Language,
		Transcript: result.Text,
		Gloss:      tokens,
	})
	if err != nil {
		return newFailure(FailureArtifact, err)
	}

	utterance, err := m.repo.CreateUtterance(ctx, repository.CreateUtteranceInput{
		SessionID:  sess.ID,
		Transcript: result.Text,
		Gloss:      tokens,
		AudioPath:  audioPath,
		JSONPath:   jsonPath,
	})
	if err != nil {
		return newFailure(FailurePersistence, err)
	}

	if err := m.repo.CompleteSession(ctx, repository.CompleteSessionInput{
		SessionID: sess.ID,
		Status:    repository.SessionStatusDone,
	}); err != nil {
		return newFailure(FailurePersistence, err)
	}

	msg := resultMessage{
		Type:        messageTypeResult,
		SessionID:   sess.ID,
		UtteranceID: utterance.ID,
		Transcript:  result.Text,
		Gloss:       tokens,
		AudioPath:   audioPath,
		JSONPath:    jsonPath,
	}
	if result.HasConfidence {
		confidence := result.Confidence
		msg.Confidence = &confidence
	}
	if err := conn.SendJSON(msg); err != nil {
		slog.Warn("failed to send result frame", "error", err, "session_id", sess.ID)
	}
	m.metrics.SessionsCompleted.Inc()
	slog.Info("session completed",
		"session_id", sess.ID,
		"utterance_id", utterance.ID,
		"engine", kind,
		"transcript_len", len(result.Text),
		"gloss_tokens", len(tokens))

	m.notifyWebhook(ctx, sess, utterance, tokens)
	return nil
}

func (m *Manager) notifyWebhook(ctx context.Context, sess *repository.Session, utterance *repository.Utterance, tokens []string) {
	payload := webhook.ResultPayload{
		SessionID:   sess.ID,
		UtteranceID: utterance.ID,
		Language:    sess.Language,
		Transcript:  utterance.Transcript,
		Gloss:       tokens,
		AudioPath:   utterance.AudioPath,
		JSONPath:    utterance.JSONPath,
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := m.webhook.SendResult(ctx, payload); err != nil {
		slog.Error("failed to send result webhook", "error", err, "session_id", sess.ID)
	}
}

// failSession is the single adapter from a typed failure to the one outward
// error frame. Notification is best-effort; a dead channel is not escalated.
func (m *Manager) failSession(ctx context.Context, conn stream.Conn, sess *repository.Session, failure *Failure) {
	slog.Error("session failed", "session_id", sess.ID, "kind", string(failure.Kind), "error", failure.Err)
	m.metrics.SessionsFailed.WithLabelValues(string(failure.Kind)).Inc()

	if failure.Kind == FailureEmptyAudio {
		if err := m.repo.CompleteSession(ctx, repository.CompleteSessionInput{
			SessionID: sess.ID,
			Status:    repository.SessionStatusError,
		}); err != nil {
			slog.Error("failed to mark session errored", "error", err, "session_id", sess.ID)
		}
	}

	m.sendError(conn, failure)
}

func (m *Manager) sendError(conn stream.Conn, failure *Failure) {
	if err := conn.SendJSON(errorMessage{Type: messageTypeError, Message: failure.Message()}); err != nil {
		slog.Debug("failed to deliver error frame", "error", err)
	}
}
