package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/prasetyadi/meeting-summarizer/internal/api/response"
	"github.com/prasetyadi/meeting-summarizer/internal/config"
	"github.com/prasetyadi/meeting-summarizer/internal/domain"
	"github.com/prasetyadi/meeting-summarizer/internal/service"
)

var validate = validator.New()

// MeetingHandler exposes the upload, chat, finalize and download endpoints.
type MeetingHandler struct {
	svc *service.MeetingService
	cfg *config.Manager
}

// NewMeetingHandler creates a meeting handler.
func NewMeetingHandler(svc *service.MeetingService, cfg *config.Manager) *MeetingHandler {
	return &MeetingHandler{svc: svc, cfg: cfg}
}

// SummaryPayload is the summary shape returned to clients. History stays
// internal.
type SummaryPayload struct {
	Content string `json:"content"`
	Status  string `json:"status"`
	Version int    `json:"version"`
}

func summaryPayload(s *domain.Summary) SummaryPayload {
	return SummaryPayload{Content: s.Content, Status: string(s.Status), Version: s.Version}
}

// UploadResponse is the result of a processed upload.
type UploadResponse struct {
	SessionID     string         `json:"session_id"`
	Transcription string         `json:"transcription"`
	Summary       SummaryPayload `json:"summary"`
}

// Upload accepts a multipart audio upload and runs the processing pipeline.
func (h *MeetingHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Reject oversized bodies before buffering them; the service enforces
	// the exact ceiling on the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.UploadMaxSizeBytes()+(1<<20))

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if isTooLarge(err) {
			h.tooLarge(w)
			return
		}
		response.BadRequest(w, domain.CodeFileFormat, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, domain.CodeFileFormat, "no file uploaded")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		if isTooLarge(err) {
			h.tooLarge(w)
			return
		}
		response.BadRequest(w, domain.CodeFileFormat, "failed to read uploaded file")
		return
	}

	sess, err := h.svc.ProcessUpload(r.Context(), audio, header.Filename, r.FormValue("language"))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, UploadResponse{
		SessionID:     sess.ID,
		Transcription: sess.Transcription,
		Summary:       summaryPayload(sess.Summary),
	})
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func (h *MeetingHandler) tooLarge(w http.ResponseWriter) {
	response.Error(w, http.StatusBadRequest, response.ErrorBody{
		Code:    string(domain.CodeFileSize),
		Message: fmt.Sprintf("file exceeds the %dMB upload limit", h.cfg.UploadMaxSizeMB()),
	})
}

// ChatRequest is one conversational turn against a session.
type ChatRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid4"`
	Message   string `json:"message" validate:"required"`
	Type      string `json:"type" validate:"omitempty,oneof=question edit_request"`
}

// ChatResponse carries the assistant reply and, for successful edits, the
// revised summary.
type ChatResponse struct {
	Response       string          `json:"response"`
	UpdatedSummary *SummaryPayload `json:"updated_summary,omitempty"`
}

// Chat handles a question or edit request.
func (h *MeetingHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, domain.CodeInternal, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, domain.CodeInternal, err.Error())
		return
	}

	result, err := h.svc.Chat(r.Context(), req.SessionID, req.Message, domain.MessageKind(req.Type))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	resp := ChatResponse{Response: result.Response}
	if result.UpdatedSummary != nil {
		p := summaryPayload(result.UpdatedSummary)
		resp.UpdatedSummary = &p
	}
	response.OK(w, resp)
}

// RegenerateRequest retries initial draft generation for a session whose
// drafting step failed.
type RegenerateRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid4"`
}

// Regenerate re-runs initial summary generation on the stored transcript.
func (h *MeetingHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	var req RegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, domain.CodeInternal, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, domain.CodeInternal, err.Error())
		return
	}

	sess, err := h.svc.RegenerateDraft(r.Context(), req.SessionID)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, UploadResponse{
		SessionID:     sess.ID,
		Transcription: sess.Transcription,
		Summary:       summaryPayload(sess.Summary),
	})
}

// FinalizeRequest confirms a session's summary.
type FinalizeRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid4"`
}

// FinalizeResponse carries the frozen summary and its download location.
type FinalizeResponse struct {
	Summary     SummaryPayload `json:"summary"`
	DownloadURL string         `json:"download_url"`
}

// Finalize freezes the session's summary.
func (h *MeetingHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	var req FinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, domain.CodeInternal, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, domain.CodeInternal, err.Error())
		return
	}

	sess, err := h.svc.Finalize(r.Context(), req.SessionID)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.OK(w, FinalizeResponse{
		Summary:     summaryPayload(sess.Summary),
		DownloadURL: "/api/download/" + sess.ID,
	})
}

// Download serves the session's summary as a Markdown attachment.
func (h *MeetingHandler) Download(w http.ResponseWriter, r *http.Request) {
	export, err := h.svc.Export(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(export.Content))
}

// GetSession returns the full session state, conversation log included.
func (h *MeetingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.OK(w, sess)
}
