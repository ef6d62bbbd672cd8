package transcriber

import "context"

// Transcriber is the contract the core requires from the speech-to-text
// collaborator.
type Transcriber interface {
	// Transcribe converts recorded audio into text. Failures map to the
	// WHISPER_SERVICE_ERROR, TRANSCRIPTION_ERROR and TIMEOUT_ERROR codes.
	Transcribe(ctx context.Context, audio []byte, filename, language string) (string, error)

	// CheckHealth reports whether the backend looks reachable. Health is
	// advisory only and never gates an upload attempt.
	CheckHealth(ctx context.Context) bool
}
