package command

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/artifact"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/domain"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/server"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/storage"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/storage/audit"
)

// ArtifactService is the pipeline surface the handlers invoke.
// *artifact.Service implements it.
type ArtifactService interface {
	Generate(ctx context.Context, in artifact.GenerateInput) (storage.Links, error)
	Link(ctx context.Context, id, storageLocator string) (storage.Links, error)
	Preview(ctx context.Context, templateName string, data, taskData map[string]any) (string, error)
}

// Auditor records request outcomes. May be nil when auditing is disabled.
type Auditor interface {
	Record(ctx context.Context, rec audit.Record) error
}

// ArtifactsHandler serves the artifacts/* commands.
type ArtifactsHandler struct {
	service ArtifactService
	auditor Auditor
	logger  *slog.Logger
}

// NewArtifactsHandler creates the handler. auditor may be nil.
func NewArtifactsHandler(service ArtifactService, auditor Auditor, logger *slog.Logger) *ArtifactsHandler {
	return &ArtifactsHandler{service: service, auditor: auditor, logger: logger}
}

type generateRequest struct {
	ID            string         `json:"id"`
	Template      string         `json:"template"`
	Data          map[string]any `json:"data"`
	GenerateLinks bool           `json:"generate_links"`
	Storage       string         `json:"storage"`
	TaskData      map[string]any `json:"spiff__task_data"`
}

type linkRequest struct {
	ID      string `json:"id"`
	Storage string `json:"storage"`
}

type previewRequest struct {
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
	TaskData map[string]any `json:"spiff__task_data"`
}

// HandleGenerateArtifact runs the full generation pipeline and reports the
// outcome in the envelope. Internal failures never surface as transport
// faults.
func (h *ArtifactsHandler) HandleGenerateArtifact(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, domain.ErrValidation("request body is not valid JSON").WithCause(err))
		return
	}
	server.AddLogField(r.Context(), "artifact_id", req.ID)
	server.AddLogField(r.Context(), "template", req.Template)

	links, err := h.service.Generate(r.Context(), artifact.GenerateInput{
		ID:            req.ID,
		Template:      req.Template,
		Data:          req.Data,
		TaskData:      req.TaskData,
		GenerateLinks: req.GenerateLinks,
		Storage:       req.Storage,
	})

	h.record(r.Context(), audit.Record{
		ArtifactID: req.ID,
		Command:    "artifacts/GenerateArtifact",
		Template:   req.Template,
		Bucket:     req.Storage,
		Status:     statusOf(err),
		Error:      errString(err),
		Duration:   time.Since(start),
	})

	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeEnvelope(w, h.logger, successEnvelope(links))
}

// HandleGetLink verifies the artifact exists and returns its links.
func (h *ArtifactsHandler) HandleGetLink(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, domain.ErrValidation("request body is not valid JSON").WithCause(err))
		return
	}
	server.AddLogField(r.Context(), "artifact_id", req.ID)

	links, err := h.service.Link(r.Context(), req.ID, req.Storage)

	h.record(r.Context(), audit.Record{
		ArtifactID: req.ID,
		Command:    "artifacts/GetLinkToArtifact",
		Bucket:     req.Storage,
		Status:     statusOf(err),
		Error:      errString(err),
		Duration:   time.Since(start),
	})

	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeEnvelope(w, h.logger, successEnvelope(links))
}

// HandleGeneratePreview renders the template without paginating or
// persisting. The markup is HTML-escaped and then base64-encoded so it can
// be embedded safely.
func (h *ArtifactsHandler) HandleGeneratePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, domain.ErrValidation("request body is not valid JSON").WithCause(err))
		return
	}
	server.AddLogField(r.Context(), "template", req.Template)

	markup, err := h.service.Preview(r.Context(), req.Template, req.Data, req.TaskData)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(html.EscapeString(markup)))
	writeEnvelope(w, h.logger, successEnvelope(map[string]string{"previewData": encoded}))
}

func (h *ArtifactsHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	server.AddError(r.Context(), err)
	h.logger.Error("command failed",
		slog.String("path", r.URL.Path),
		slog.String("kind", string(domain.KindOf(err))),
		slog.String("error", err.Error()))
	writeEnvelope(w, h.logger, errorEnvelope(err))
}

func (h *ArtifactsHandler) record(ctx context.Context, rec audit.Record) {
	if h.auditor == nil {
		return
	}
	if err := h.auditor.Record(ctx, rec); err != nil {
		h.logger.Warn("recording audit entry", slog.String("error", err.Error()))
	}
}

func statusOf(err error) string {
	if err != nil {
		return "500"
	}
	return "200"
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
