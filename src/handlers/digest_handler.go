// backend/src/handlers/digest_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/chapati23/morning-briefing/src/logger"
	"github.com/chapati23/morning-briefing/src/models"
	"github.com/chapati23/morning-briefing/src/services"
	"github.com/chapati23/morning-briefing/src/utils"
)

const maxRunsLimit = 200

type DigestHandler struct {
	digestService services.DigestService
}

func NewDigestHandler(digestService services.DigestService) *DigestHandler {
	return &DigestHandler{digestService: digestService}
}

// HandleGetDigest returns the congressional-trades section as JSON. An unavailable source still
// yields the placeholder section, with status 503.
func (h *DigestHandler) HandleGetDigest(w http.ResponseWriter, r *http.Request) {
	section, status, ok := h.build(w, r, false)
	if !ok {
		return
	}
	utils.SendJSON(w, section, status)
}

func (h *DigestHandler) HandleGetDigestHTML(w http.ResponseWriter, r *http.Request) {
	section, status, ok := h.build(w, r, false)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(services.RenderHTML(section)))
}

// HandleRefresh drops every cache and rebuilds the section.
func (h *DigestHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	operator, _ := OperatorFromContext(r.Context())
	logger.FromContext(r.Context()).Info("Manual digest refresh requested", "operator", operator)

	section, status, ok := h.build(w, r, true)
	if !ok {
		return
	}
	utils.SendJSON(w, section, status)
}

func (h *DigestHandler) HandleGetRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			utils.SendJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxRunsLimit)
	}

	runs, err := h.digestService.RecentRuns(limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list digest runs", "error", err)
		utils.SendJSONError(w, "Error retrieving run history", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, runs, http.StatusOK)
}

func (h *DigestHandler) build(w http.ResponseWriter, r *http.Request, refresh bool) (*models.DigestSection, int, bool) {
	ctxLogger := logger.FromContext(r.Context())

	var section *models.DigestSection
	var err error
	if refresh {
		section, err = h.digestService.Refresh(r.Context())
	} else {
		section, err = h.digestService.BuildDigest(r.Context())
	}

	switch {
	case err == nil:
		return section, http.StatusOK, true
	case errors.Is(err, services.ErrSourceUnavailable) && section != nil:
		ctxLogger.Warn("Serving unavailable digest section", "error", err)
		return section, http.StatusServiceUnavailable, true
	default:
		ctxLogger.Error("Failed to build digest", "error", err)
		utils.SendJSONError(w, "Error building digest", http.StatusInternalServerError)
		return nil, 0, false
	}
}
