package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prasetyadi/meeting-summarizer/internal/config"
	"github.com/prasetyadi/meeting-summarizer/internal/domain"
	"github.com/prasetyadi/meeting-summarizer/internal/session"
	"github.com/prasetyadi/meeting-summarizer/internal/summarizer"
	"github.com/prasetyadi/meeting-summarizer/internal/transcriber"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

var allowedExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".m4a": true,
}

// ValidateAudioFilename checks the extension against the supported formats,
// case-insensitively.
func ValidateAudioFilename(filename string) error {
	if filename == "" {
		return domain.NewError(domain.CodeFileFormat, "filename must not be empty", false)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return domain.NewError(domain.CodeFileFormat, "unsupported audio format, expected mp3, wav or m4a", false)
	}
	return nil
}

// MeetingService sequences upload, transcription, summarization, the
// chat/edit loop, finalization and export. Adapter calls run outside the
// session's critical section; their results are applied in short locked
// mutations that re-validate preconditions.
type MeetingService struct {
	cfg         *config.Manager
	store       *session.Store
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
}

// NewMeetingService creates the orchestration service.
func NewMeetingService(cfg *config.Manager, store *session.Store, t transcriber.Transcriber, s summarizer.Summarizer) *MeetingService {
	return &MeetingService{cfg: cfg, store: store, transcriber: t, summarizer: s}
}

// ProcessUpload runs the upload pipeline: validate, create a session,
// transcribe, generate the initial draft. A transcription failure leaves the
// session without a transcript; the caller retries by uploading again, which
// creates a fresh session. A drafting failure keeps the transcript so the
// draft can be regenerated.
func (s *MeetingService) ProcessUpload(ctx context.Context, audio []byte, filename, language string) (*domain.Session, error) {
	if err := ValidateAudioFilename(filename); err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, domain.NewError(domain.CodeFileFormat, "uploaded file is empty", false)
	}
	if int64(len(audio)) > s.cfg.UploadMaxSizeBytes() {
		return nil, domain.NewError(domain.CodeFileSize,
			fmt.Sprintf("file exceeds the %dMB upload limit", s.cfg.UploadMaxSizeMB()), false)
	}

	sess := s.store.Create(filename)

	transcript, err := s.transcriber.Transcribe(ctx, audio, filename, language)
	if err != nil {
		log.Error().Err(err).Str("session_id", sess.ID).Msg("Transcription failed")
		return nil, err
	}

	if err := s.store.Update(sess.ID, func(cur *domain.Session) error {
		cur.SetTranscription(transcript)
		return nil
	}); err != nil {
		return nil, err
	}

	draft, err := s.summarizer.GenerateInitial(ctx, transcript)
	if err != nil {
		log.Error().Err(err).Str("session_id", sess.ID).Msg("Initial summary generation failed")
		return nil, err
	}

	if err := s.store.Update(sess.ID, func(cur *domain.Session) error {
		cur.Summary = domain.NewDraft(draft)
		return nil
	}); err != nil {
		return nil, err
	}

	log.Info().Str("session_id", sess.ID).Int("transcript_chars", len(transcript)).Msg("Upload processed")
	return s.store.Get(sess.ID)
}

// RegenerateDraft re-runs initial summary generation on the stored
// transcript. It is only legal while the session is still waiting for its
// first draft (drafting failed during upload).
func (s *MeetingService) RegenerateDraft(ctx context.Context, sessionID string) (*domain.Session, error) {
	snap, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if snap.Transcription == "" {
		return nil, domain.NewError(domain.CodeTranscription, "session has no transcript to summarize", false)
	}
	if snap.Summary.Status == domain.StatusFinal {
		return nil, domain.ErrSummaryFinalized
	}
	if snap.Summary.Content != "" || snap.Summary.Version != 1 {
		return nil, domain.NewError(domain.CodeInternal, "summary has already been generated", false)
	}

	draft, err := s.summarizer.GenerateInitial(ctx, snap.Transcription)
	if err != nil {
		return nil, err
	}

	err = s.store.Update(sessionID, func(cur *domain.Session) error {
		// Another request may have produced a draft or finalized while
		// the AI call was in flight.
		if cur.Summary.Status == domain.StatusFinal {
			return domain.ErrSummaryFinalized
		}
		if cur.Summary.Content != "" || cur.Summary.Version != 1 {
			return domain.NewError(domain.CodeInternal, "summary has already been generated", false)
		}
		cur.Summary = domain.NewDraft(draft)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.Get(sessionID)
}

// ChatResult is the outcome of one chat turn. UpdatedSummary is nil for
// question turns.
type ChatResult struct {
	Response       string
	UpdatedSummary *domain.Summary
}

// Chat handles one conversational turn. The caller-supplied kind wins when
// valid; otherwise the kind is inferred from the message text. The AI call
// runs against a snapshot without holding the session lock; its result is
// applied in a locked mutation that re-checks finalization, since another
// request may have finalized the summary while the call was in flight.
// Question turns stay permitted after finalization; edits do not.
func (s *MeetingService) Chat(ctx context.Context, sessionID, message string, kindHint domain.MessageKind) (*ChatResult, error) {
	kind := kindHint
	if !domain.ValidUserKind(kind) {
		kind = summarizer.ClassifyMessage(message)
	}

	snap, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if kind == domain.KindEditRequest && snap.Summary.Status == domain.StatusFinal {
		return nil, domain.ErrSummaryFinalized
	}

	req := summarizer.Request{
		Transcript: snap.Transcription,
		Summary:    snap.Summary.Content,
		Message:    message,
		History:    snap.ChatHistory,
		Kind:       kind,
	}

	log.Info().Str("session_id", sessionID).Str("kind", string(kind)).Msg("Chat turn started")

	reply, err := s.summarizer.Converse(ctx, req)
	if err != nil {
		// Session state is untouched; the caller may retry.
		log.Error().Err(err).Str("session_id", sessionID).Msg("Chat turn failed")
		return nil, err
	}

	userMsg := domain.ChatMessage{Role: domain.RoleUser, Content: message, Kind: kind, Timestamp: time.Now()}

	var updated *domain.Summary
	err = s.store.Update(sessionID, func(cur *domain.Session) error {
		if kind == domain.KindEditRequest && reply.RevisedContent != "" {
			if err := cur.Summary.Revise(reply.RevisedContent); err != nil {
				return err
			}
			updated = cur.Summary.Clone()
		}
		cur.AddMessage(userMsg)
		cur.AddMessage(domain.ChatMessage{
			Role:      domain.RoleAssistant,
			Content:   reply.Text,
			Kind:      domain.KindResponse,
			Timestamp: time.Now(),
		})
		return nil
	})
	if err != nil {
		updated = nil
		return nil, err
	}

	return &ChatResult{Response: reply.Text, UpdatedSummary: updated}, nil
}

// Finalize moves the session's summary from draft to final. Finalizing an
// already-final summary is an error, not a no-op.
func (s *MeetingService) Finalize(ctx context.Context, sessionID string) (*domain.Session, error) {
	err := s.store.Update(sessionID, func(cur *domain.Session) error {
		return cur.Summary.Finalize()
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("session_id", sessionID).Msg("Summary finalized")
	return s.store.Get(sessionID)
}

// ExportResult is the downloadable document for a session.
type ExportResult struct {
	Filename string
	Content  string
}

// Export returns the session's summary as a Markdown document named after
// the original recording.
func (s *MeetingService) Export(ctx context.Context, sessionID string) (*ExportResult, error) {
	snap, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(snap.AudioFilename, filepath.Ext(snap.AudioFilename))
	if base == "" {
		base = "meeting"
	}
	return &ExportResult{Filename: base + "-summary.md", Content: snap.Summary.Content}, nil
}

// GetSession returns a snapshot of the full session state.
func (s *MeetingService) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.store.Get(sessionID)
}

// HealthStatus is the advisory system status.
type HealthStatus struct {
	Status         string `json:"status"`
	WhisperService string `json:"whisper_service"`
	Version        string `json:"version"`
}

// Health reports the advisory whisper availability. A failing check never
// blocks an upload attempt.
func (s *MeetingService) Health(ctx context.Context) HealthStatus {
	whisper := "unavailable"
	if s.transcriber.CheckHealth(ctx) {
		whisper = "available"
	}
	return HealthStatus{Status: "healthy", WhisperService: whisper, Version: Version}
}
