package command

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/storage/audit"
)

// AuditReader lists recorded request outcomes. *audit.Store implements it.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]audit.Record, error)
}

// AuditHandler serves the recent-requests listing.
type AuditHandler struct {
	reader AuditReader
	logger *slog.Logger
}

// NewAuditHandler creates the handler.
func NewAuditHandler(reader AuditReader, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{reader: reader, logger: logger}
}

// HandleRecent returns the most recent audit records, newest first. The
// limit query parameter defaults to 20.
func (h *AuditHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.reader.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("listing audit records", slog.String("error", err.Error()))
		http.Error(w, "failed to list records", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []audit.Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		h.logger.Error("encoding audit records", slog.String("error", err.Error()))
	}
}
