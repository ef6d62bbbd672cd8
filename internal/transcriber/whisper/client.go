package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prasetyadi/meeting-summarizer/internal/config"
	"github.com/prasetyadi/meeting-summarizer/internal/domain"
	"github.com/prasetyadi/meeting-summarizer/internal/transcriber"
)

const (
	// OpenAI-compatible transcription endpoint exposed by the whisper service.
	transcriptionEndpoint = "/v1/audio/transcriptions"
	healthEndpoint        = "/health"
	modelName             = "whisper-1"

	healthTimeout = 5 * time.Second
)

// Client implements transcriber.Transcriber against a local whisper service.
// Base URL, timeout and default language are read from config on every call
// so a reload takes effect without reconstruction.
type Client struct {
	cfg    *config.Manager
	client *http.Client
}

// NewClient creates a whisper client.
func NewClient(cfg *config.Manager) transcriber.Transcriber {
	// Per-call deadlines come from config via the request context.
	return &Client{cfg: cfg, client: &http.Client{}}
}

func (c *Client) baseURL() string {
	return strings.TrimRight(c.cfg.WhisperURL(), "/")
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe sends the audio to the whisper service and returns the
// transcript text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename, language string) (string, error) {
	if language == "" {
		language = c.cfg.WhisperLanguage()
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.WhisperTimeout())
	defer cancel()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", domain.WrapError(err, domain.CodeInternal, "failed to build transcription request", true)
	}
	if _, err := fw.Write(audio); err != nil {
		return "", domain.WrapError(err, domain.CodeInternal, "failed to build transcription request", true)
	}
	mw.WriteField("model", modelName)
	mw.WriteField("language", language)
	if err := mw.Close(); err != nil {
		return "", domain.WrapError(err, domain.CodeInternal, "failed to build transcription request", true)
	}

	url := c.baseURL() + transcriptionEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", domain.WrapError(err, domain.CodeInternal, "failed to build transcription request", true)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	log.Info().Str("filename", filename).Str("language", language).Int("bytes", len(audio)).Msg("Sending audio for transcription")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.WrapError(err, domain.CodeTimeout, "transcription request timed out", true)
		}
		return "", domain.WrapError(err, domain.CodeWhisperService, "transcription service is unavailable", true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error().Int("status", resp.StatusCode).Str("detail", string(detail)).Msg("Whisper service returned an error")

		if resp.StatusCode >= http.StatusInternalServerError {
			return "", domain.NewError(domain.CodeWhisperService,
				fmt.Sprintf("transcription service returned status %d", resp.StatusCode), true)
		}
		// 4xx means the service rejected this audio.
		return "", domain.NewError(domain.CodeTranscription, "the audio could not be transcribed", false)
	}

	var out transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", domain.WrapError(err, domain.CodeWhisperService, "failed to decode transcription response", true)
	}

	text := strings.TrimSpace(out.Text)
	log.Info().Str("filename", filename).Int("chars", len(text)).Msg("Transcription complete")
	return text, nil
}

// CheckHealth probes the whisper service health endpoint.
func (c *Client) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+healthEndpoint, nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("Whisper health check failed")
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
