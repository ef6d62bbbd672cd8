package claudecli

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/prasetyadi/meeting-summarizer/internal/config"
	"github.com/prasetyadi/meeting-summarizer/internal/domain"
	"github.com/prasetyadi/meeting-summarizer/internal/summarizer"
)

// editConfirmation is the assistant reply recorded for a successful edit
// turn; the revised summary itself travels separately.
const editConfirmation = "I've updated the summary based on your request."

// Runner implements summarizer.Summarizer by spawning the Claude CLI in
// non-interactive mode (`claude -p`), writing the prompt to stdin and
// capturing stdout. Command and timeout are read from config on every call.
type Runner struct {
	cfg *config.Manager
}

// NewRunner creates a CLI-backed summarizer.
func NewRunner(cfg *config.Manager) summarizer.Summarizer {
	return &Runner{cfg: cfg}
}

// GenerateInitial produces the version-1 draft from a transcript. An empty
// transcript yields an empty draft without invoking the tool.
func (r *Runner) GenerateInitial(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		log.Warn().Msg("Empty transcript, skipping summary generation")
		return "", nil
	}

	prompt := summarizer.BuildSummaryPrompt(r.cfg.SummaryPromptTemplate(), transcript)
	return r.run(ctx, prompt)
}

// Converse handles one chat turn against the full session context.
func (r *Runner) Converse(ctx context.Context, req summarizer.Request) (summarizer.Reply, error) {
	out, err := r.run(ctx, summarizer.BuildConversePrompt(req))
	if err != nil {
		return summarizer.Reply{}, err
	}

	if req.Kind == domain.KindEditRequest {
		return summarizer.Reply{Text: editConfirmation, RevisedContent: out}, nil
	}
	return summarizer.Reply{Text: out}, nil
}

func (r *Runner) run(ctx context.Context, prompt string) (string, error) {
	command := r.cfg.ClaudeCommand()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ClaudeTimeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, command, "-p")
	cmd.Stdin = strings.NewReader(prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Info().Str("command", command).Int("prompt_chars", len(prompt)).Msg("Invoking Claude CLI")

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			log.Error().Str("command", command).Msg("Claude CLI timed out")
			return "", domain.WrapError(err, domain.CodeTimeout, "AI service timed out, please retry", true)
		}
		if errors.Is(err, exec.ErrNotFound) {
			log.Error().Str("command", command).Msg("Claude CLI not found")
			return "", domain.WrapError(err, domain.CodeClaudeCLI, "AI service is unavailable, check that the CLI is installed", true)
		}

		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		log.Error().Str("command", command).Str("stderr", detail).Msg("Claude CLI returned an error")
		return "", domain.WrapError(err, domain.CodeClaudeCLI, "AI service returned an error: "+detail, true)
	}

	result := strings.TrimSpace(stdout.String())
	log.Info().Int("reply_chars", len(result)).Msg("Claude CLI call complete")
	return result, nil
}
