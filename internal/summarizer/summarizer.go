package summarizer

import (
	"context"

	"github.com/prasetyadi/meeting-summarizer/internal/domain"
)

// Request carries the full conversational context for one chat turn. The
// external tool is stateless between calls, so every request must contain the
// complete transcript, the summary as it stood before the call and every
// prior message in original order.
type Request struct {
	Transcript string
	Summary    string
	Message    string
	History    []domain.ChatMessage
	Kind       domain.MessageKind
}

// Reply is the result of one chat turn. RevisedContent is set only for
// edit requests and holds the complete replacement summary.
type Reply struct {
	Text           string
	RevisedContent string
}

// Summarizer is the contract the core requires from the AI-completion
// collaborator.
type Summarizer interface {
	// GenerateInitial produces the version-1 draft from a transcript.
	GenerateInitial(ctx context.Context, transcript string) (string, error)

	// Converse handles one chat turn. For edit requests the reply carries
	// revised summary content; questions only produce a reply.
	Converse(ctx context.Context, req Request) (Reply, error)
}
