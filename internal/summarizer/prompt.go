package summarizer

import (
	"fmt"
	"strings"

	"github.com/prasetyadi/meeting-summarizer/internal/domain"
)

const chatPromptFormat = `You are a meeting assistant helping the user understand and analyze a meeting.

Original meeting transcript:
%s

Current meeting summary:
%s

Conversation so far:
%s

User question:
%s

Answer the question based on the meeting content. If the question is unrelated to the meeting, say so politely.`

const editPromptFormat = `You are a meeting assistant helping the user refine a meeting summary.

Original meeting transcript:
%s

Current meeting summary:
%s

Conversation so far:
%s

Requested change:
%s

Apply the requested change and output only the complete revised summary in Markdown.`

// BuildSummaryPrompt fills the summary template with the transcript. The
// template uses a {transcription} placeholder so it can live in the config
// file.
func BuildSummaryPrompt(template, transcript string) string {
	return strings.ReplaceAll(template, "{transcription}", transcript)
}

// BuildConversePrompt assembles the full context for one chat turn. The
// prompt always embeds the transcript, the pre-call summary, the complete
// history in order and the user message.
func BuildConversePrompt(req Request) string {
	format := chatPromptFormat
	if req.Kind == domain.KindEditRequest {
		format = editPromptFormat
	}
	return fmt.Sprintf(format, req.Transcript, req.Summary, FormatHistory(req.History), req.Message)
}

// FormatHistory renders the conversation log as role-prefixed lines in
// insertion order.
func FormatHistory(history []domain.ChatMessage) string {
	if len(history) == 0 {
		return "(no previous messages)"
	}

	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}
	return strings.Join(lines, "\n")
}
