package handler

import (
	"net/http"

	"github.com/prasetyadi/meeting-summarizer/internal/api/response"
	"github.com/prasetyadi/meeting-summarizer/internal/service"
)

// HealthHandler reports system and dependency status.
type HealthHandler struct {
	svc *service.MeetingService
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(svc *service.MeetingService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

// Check returns the advisory health status.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.svc.Health(r.Context()))
}
