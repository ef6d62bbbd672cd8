package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the unit of state for one uploaded recording, bundling the
// transcript, the summary and the conversation history.
type Session struct {
	ID            string        `json:"id"`
	AudioFilename string        `json:"audio_filename"`
	Transcription string        `json:"transcription"`
	Summary       *Summary      `json:"summary"`
	ChatHistory   []ChatMessage `json:"chat_history"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewSession creates a session with an empty transcript, an empty version-1
// draft and a fresh conversation log.
func NewSession(audioFilename string) *Session {
	now := time.Now()
	return &Session{
		ID:            uuid.New().String(),
		AudioFilename: audioFilename,
		Summary:       NewDraft(""),
		ChatHistory:   []ChatMessage{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// AddMessage appends a turn to the conversation log.
func (s *Session) AddMessage(m ChatMessage) {
	s.ChatHistory = append(s.ChatHistory, m)
	s.UpdatedAt = time.Now()
}

// ClearChatHistory discards the conversation log. Only called when a new
// recording starts processing, never as a standalone user action.
func (s *Session) ClearChatHistory() {
	s.ChatHistory = s.ChatHistory[:0]
	s.UpdatedAt = time.Now()
}

// SetTranscription stores the transcript text.
func (s *Session) SetTranscription(text string) {
	s.Transcription = text
	s.UpdatedAt = time.Now()
}

// Clone returns a deep copy safe to hand to callers outside the store's
// critical section.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Summary = s.Summary.Clone()
	cp.ChatHistory = append([]ChatMessage{}, s.ChatHistory...)
	return &cp
}
