package domain

import "time"

// MessageRole represents the sender of a message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// MessageKind classifies a chat turn. User turns are questions or edit
// requests; assistant turns are responses.
type MessageKind string

const (
	KindQuestion    MessageKind = "question"
	KindEditRequest MessageKind = "edit_request"
	KindResponse    MessageKind = "response"
)

// ValidUserKind reports whether k is a kind a caller may supply for a user
// turn.
func ValidUserKind(k MessageKind) bool {
	return k == KindQuestion || k == KindEditRequest
}

// ChatMessage is one turn in a session's conversation log. Ordering is
// insertion order and is significant: the log is replayed verbatim into every
// subsequent AI call.
type ChatMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Kind      MessageKind `json:"message_type"`
	Timestamp time.Time   `json:"timestamp"`
}
