package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetyadi/meeting-summarizer/internal/api"
	"github.com/prasetyadi/meeting-summarizer/internal/api/handler"
	"github.com/prasetyadi/meeting-summarizer/internal/api/response"
	"github.com/prasetyadi/meeting-summarizer/internal/config"
	"github.com/prasetyadi/meeting-summarizer/internal/domain"
	"github.com/prasetyadi/meeting-summarizer/internal/session"
	"github.com/prasetyadi/meeting-summarizer/internal/summarizer"
)

// stubTranscriber returns a scripted transcript.
type stubTranscriber struct {
	transcript string
	err        error
	healthy    bool
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audio []byte, filename, language string) (string, error) {
	return s.transcript, s.err
}

func (s *stubTranscriber) CheckHealth(ctx context.Context) bool { return s.healthy }

// stubSummarizer returns scripted replies.
type stubSummarizer struct {
	initial string
	reply   summarizer.Reply
	err     error
}

func (s *stubSummarizer) GenerateInitial(ctx context.Context, transcript string) (string, error) {
	return s.initial, s.err
}

func (s *stubSummarizer) Converse(ctx context.Context, req summarizer.Request) (summarizer.Reply, error) {
	if s.err != nil {
		return summarizer.Reply{}, s.err
	}
	reply := s.reply
	if req.Kind != domain.KindEditRequest {
		reply.RevisedContent = ""
	}
	return reply, nil
}

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorBody `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  upload_max_size: 1\n"), 0o644))
	cfg := config.New(path)

	tr := &stubTranscriber{transcript: "we discussed the roadmap", healthy: true}
	sm := &stubSummarizer{
		initial: "# Summary\n- roadmap",
		reply:   summarizer.Reply{Text: "done", RevisedContent: "# Summary\n- roadmap\n- budget"},
	}

	srv := httptest.NewServer(api.NewRouter(cfg, session.NewStore(), tr, sm))
	t.Cleanup(srv.Close)
	return srv
}

func uploadRequest(t *testing.T, url, filename string, audio []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(audio)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, url+"/api/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func doJSON(t *testing.T, url, path string, body any) (*http.Response, envelope) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func doUpload(t *testing.T, url, filename string) (*http.Response, envelope) {
	t.Helper()
	resp, err := http.DefaultClient.Do(uploadRequest(t, url, filename, []byte("fake-audio")))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

// uploadSession runs a successful upload and returns the session id.
func uploadSession(t *testing.T, url string) string {
	t.Helper()
	resp, env := doUpload(t, url, "standup.mp3")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data handler.UploadResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.SessionID)
	return data.SessionID
}

func TestUpload(t *testing.T) {
	srv := newTestServer(t)

	t.Run("success", func(t *testing.T) {
		resp, env := doUpload(t, srv.URL, "standup.mp3")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, env.Success)

		var data handler.UploadResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.NotEmpty(t, data.SessionID)
		assert.Equal(t, "we discussed the roadmap", data.Transcription)
		assert.Equal(t, "# Summary\n- roadmap", data.Summary.Content)
		assert.Equal(t, "draft", data.Summary.Status)
		assert.Equal(t, 1, data.Summary.Version)
	})

	t.Run("extension check is case-insensitive", func(t *testing.T) {
		resp, _ := doUpload(t, srv.URL, "standup.MP3")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unsupported format", func(t *testing.T) {
		resp, env := doUpload(t, srv.URL, "notes.ogg")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, string(domain.CodeFileFormat), env.Error.Code)
	})

	t.Run("missing file part", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("language", "en"))
		require.NoError(t, mw.Close())

		resp, err := http.Post(srv.URL+"/api/upload", mw.FormDataContentType(), &buf)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("oversized file", func(t *testing.T) {
		// over the 1MB ceiling but inside the request-body guard, so the
		// rejection comes from the service after the body is read
		req := uploadRequest(t, srv.URL, "standup.mp3", bytes.Repeat([]byte("a"), 3<<19))
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		var env envelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, string(domain.CodeFileSize), env.Error.Code)
	})
}

func TestChat(t *testing.T) {
	srv := newTestServer(t)
	id := uploadSession(t, srv.URL)

	t.Run("question leaves the summary alone", func(t *testing.T) {
		resp, env := doJSON(t, srv.URL, "/api/chat", map[string]string{
			"session_id": id,
			"message":    "when is the deadline?",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var data handler.ChatResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "done", data.Response)
		assert.Nil(t, data.UpdatedSummary)
	})

	t.Run("edit returns the revised summary", func(t *testing.T) {
		resp, env := doJSON(t, srv.URL, "/api/chat", map[string]string{
			"session_id": id,
			"message":    "add the budget discussion",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var data handler.ChatResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		require.NotNil(t, data.UpdatedSummary)
		assert.Equal(t, "# Summary\n- roadmap\n- budget", data.UpdatedSummary.Content)
		assert.Equal(t, 2, data.UpdatedSummary.Version)
	})

	t.Run("unknown session", func(t *testing.T) {
		resp, env := doJSON(t, srv.URL, "/api/chat", map[string]string{
			"session_id": "0e1aa1a6-22a8-4b6c-9b94-0d2bd5f9c7e1",
			"message":    "hello?",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, string(domain.CodeSessionNotFound), env.Error.Code)
	})

	t.Run("malformed session id fails validation", func(t *testing.T) {
		resp, _ := doJSON(t, srv.URL, "/api/chat", map[string]string{
			"session_id": "not-a-uuid",
			"message":    "hello?",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("empty message fails validation", func(t *testing.T) {
		resp, _ := doJSON(t, srv.URL, "/api/chat", map[string]string{
			"session_id": id,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestFinalizeAndDownload(t *testing.T) {
	srv := newTestServer(t)
	id := uploadSession(t, srv.URL)

	resp, env := doJSON(t, srv.URL, "/api/finalize", map[string]string{"session_id": id})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data handler.FinalizeResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "final", data.Summary.Status)
	assert.Equal(t, "/api/download/"+id, data.DownloadURL)

	t.Run("finalizing twice conflicts", func(t *testing.T) {
		resp, env := doJSON(t, srv.URL, "/api/finalize", map[string]string{"session_id": id})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, string(domain.CodeSummaryFinalized), env.Error.Code)
	})

	t.Run("edits are rejected after finalize", func(t *testing.T) {
		resp, env := doJSON(t, srv.URL, "/api/chat", map[string]string{
			"session_id": id,
			"message":    "remove the roadmap bullet",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, string(domain.CodeSummaryFinalized), env.Error.Code)
	})

	t.Run("download serves a markdown attachment", func(t *testing.T) {
		resp, err := http.Get(srv.URL + data.DownloadURL)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/markdown; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Equal(t, `attachment; filename="standup-summary.md"`, resp.Header.Get("Content-Disposition"))

		var body bytes.Buffer
		_, err = body.ReadFrom(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "# Summary\n- roadmap", body.String())
	})

	t.Run("download for an unknown session", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/download/0e1aa1a6-22a8-4b6c-9b94-0d2bd5f9c7e1")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRegenerate(t *testing.T) {
	srv := newTestServer(t)
	id := uploadSession(t, srv.URL)

	// the upload already produced a draft, so a retry is refused
	resp, env := doJSON(t, srv.URL, "/api/regenerate", map[string]string{"session_id": id})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(domain.CodeInternal), env.Error.Code)
}

func TestGetSession(t *testing.T) {
	srv := newTestServer(t)
	id := uploadSession(t, srv.URL)

	_, env := doJSON(t, srv.URL, "/api/chat", map[string]string{
		"session_id": id,
		"message":    "when is the deadline?",
	})
	require.True(t, env.Success)

	resp, err := http.Get(srv.URL + "/api/session/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var getEnv envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&getEnv))

	var sess domain.Session
	require.NoError(t, json.Unmarshal(getEnv.Data, &sess))
	assert.Equal(t, id, sess.ID)
	assert.Equal(t, "standup.mp3", sess.AudioFilename)
	require.Len(t, sess.ChatHistory, 2)
	assert.Equal(t, "when is the deadline?", sess.ChatHistory[0].Content)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.True(t, env.Success)

	var status struct {
		Status         string `json:"status"`
		WhisperService string `json:"whisper_service"`
		Version        string `json:"version"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "available", status.WhisperService)
	assert.NotEmpty(t, status.Version)
}
