package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/moins/speechcoach/internal/middleware"
	"github.com/moins/speechcoach/internal/service"
	"github.com/moins/speechcoach/pkg/response"
)

// ImprovementHandler handles improvement generation and reads.
type ImprovementHandler struct {
	log          zerolog.Logger
	improvements *service.ImprovementService
}

// NewImprovementHandler creates a new ImprovementHandler.
func NewImprovementHandler(log zerolog.Logger, improvements *service.ImprovementService) *ImprovementHandler {
	return &ImprovementHandler{
		log:          log,
		improvements: improvements,
	}
}

// Generate handles POST /api/v1/improvements/generate
func (h *ImprovementHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.improvements.Generate(ctx, middleware.GetUserID(ctx))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// Latest handles POST /api/v1/improvements
func (h *ImprovementHandler) Latest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.improvements.Latest(ctx, middleware.GetUserID(ctx))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}
