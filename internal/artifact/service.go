package artifact

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/domain"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/storage"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/template"
)

// Composer builds the final PDF from rendered markup and raw attachments.
// *Compositor implements it.
type Composer interface {
	Compose(ctx context.Context, primaryMarkup string, associatedMarkup []string, rawAttachments []string) ([]byte, error)
}

// ObjectGateway is the storage surface the service needs. *storage.Gateway
// implements it.
type ObjectGateway interface {
	BucketFor(locator string) (string, error)
	Put(ctx context.Context, bucket, key string, data []byte) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
	Locate(ctx context.Context, bucket, key string, includePresigned bool) (storage.Links, error)
}

// Service orchestrates artifact generation, link retrieval, and HTML
// preview.
type Service struct {
	registry *template.Registry
	renderer *Renderer
	composer Composer
	gateway  ObjectGateway
	logger   *slog.Logger
}

// NewService creates the service.
func NewService(registry *template.Registry, composer Composer, gateway ObjectGateway, logger *slog.Logger) *Service {
	return &Service{
		registry: registry,
		renderer: NewRenderer(registry),
		composer: composer,
		gateway:  gateway,
		logger:   logger,
	}
}

// GenerateInput are the parameters of one generation request.
type GenerateInput struct {
	ID            string
	Template      string
	Data          map[string]any
	TaskData      map[string]any
	GenerateLinks bool
	Storage       string
}

// Generate runs the full pipeline: normalize, render, compose, persist,
// locate. The stored object key is the caller-supplied ID; a second
// request with the same ID overwrites the first.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (storage.Links, error) {
	var missing []string
	if in.ID == "" {
		missing = append(missing, "id")
	}
	if in.Template == "" {
		missing = append(missing, "template")
	}
	if len(missing) > 0 {
		return storage.Links{}, domain.ErrValidation("missing required parameters", missing...)
	}

	handle, err := s.registry.Get(in.Template)
	if err != nil {
		return storage.Links{}, err
	}
	meta := handle.Meta()

	data, err := Normalize(meta, in.Data, in.TaskData)
	if err != nil {
		return storage.Links{}, err
	}

	primary, err := s.renderer.Render(in.Template, data)
	if err != nil {
		return storage.Links{}, err
	}

	associated := make([]string, 0, len(meta.Associated))
	for _, name := range meta.Associated {
		markup, err := s.renderer.Render(name, data)
		if err != nil {
			return storage.Links{}, fmt.Errorf("associated document: %w", err)
		}
		associated = append(associated, markup)
	}

	document, err := s.composer.Compose(ctx, primary, associated, attachmentList(data))
	if err != nil {
		return storage.Links{}, err
	}

	bucket, err := s.gateway.BucketFor(in.Storage)
	if err != nil {
		return storage.Links{}, err
	}

	if err := s.gateway.Put(ctx, bucket, in.ID, document); err != nil {
		return storage.Links{}, err
	}

	s.logger.Info("artifact stored",
		slog.String("bucket", bucket),
		slog.String("key", in.ID),
		slog.Int("bytes", len(document)))

	return s.gateway.Locate(ctx, bucket, in.ID, in.GenerateLinks)
}

// Link verifies the artifact exists and returns its links, presigned
// included.
func (s *Service) Link(ctx context.Context, id, storageLocator string) (storage.Links, error) {
	if id == "" {
		return storage.Links{}, domain.ErrValidation("missing required parameters", "id")
	}

	bucket, err := s.gateway.BucketFor(storageLocator)
	if err != nil {
		return storage.Links{}, err
	}

	exists, err := s.gateway.Exists(ctx, bucket, id)
	if err != nil {
		return storage.Links{}, err
	}
	if !exists {
		return storage.Links{}, domain.ErrNotFound(fmt.Sprintf("artifact %s/%s does not exist", bucket, id))
	}

	return s.gateway.Locate(ctx, bucket, id, true)
}

// Preview normalizes and renders without paginating or persisting,
// returning the raw markup.
func (s *Service) Preview(ctx context.Context, templateName string, data, taskData map[string]any) (string, error) {
	if templateName == "" {
		return "", domain.ErrValidation("missing required parameters", "template")
	}

	handle, err := s.registry.Get(templateName)
	if err != nil {
		return "", err
	}

	normalized, err := Normalize(handle.Meta(), data, taskData)
	if err != nil {
		return "", err
	}

	return handle.Render(normalized)
}
