package artifact

import (
	"github.com/GSA-TTS/spiffworkflow-connector/internal/template"
)

// Renderer resolves templates from the injected registry and renders them
// to markup. Resolution failures are not-found errors; execution failures
// propagate the underlying templating error as a render error.
type Renderer struct {
	registry *template.Registry
}

// NewRenderer creates a renderer over the registry.
func NewRenderer(registry *template.Registry) *Renderer {
	return &Renderer{registry: registry}
}

// Render renders templateName against data.
func (r *Renderer) Render(templateName string, data map[string]any) (string, error) {
	handle, err := r.registry.Get(templateName)
	if err != nil {
		return "", err
	}
	return handle.Render(data)
}
