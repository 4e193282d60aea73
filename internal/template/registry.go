// Package template provides the registry of renderable artifact templates.
//
// The registry is constructed once at startup from a directory (or any
// fs.FS) and injected into the components that render documents. There is
// no process-wide template environment.
package template

import (
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"sort"
	"strings"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/domain"
)

// Meta describes template-family behavior the pipeline needs to know about.
type Meta struct {
	// Associated lists template names rendered as sub-documents that are
	// always attached to this primary template, in order, ahead of any
	// user-supplied attachments.
	Associated []string

	// HasIDTeamChecklist marks templates whose data must carry the sorted
	// idTeamChecklistData structure.
	HasIDTeamChecklist bool
}

// Registry holds the parsed template set and per-template metadata.
type Registry struct {
	templates map[string]*htmltemplate.Template
	meta      map[string]Meta
}

// Option configures a Registry.
type Option func(*Registry)

// WithMeta attaches metadata to a template name.
func WithMeta(name string, meta Meta) Option {
	return func(r *Registry) {
		r.meta[name] = meta
	}
}

// NewRegistry parses every .html file in fsys as an independent template.
// Each template is parsed with missingkey=error so that rendering data
// lacking a referenced field fails instead of printing a zero value.
func NewRegistry(fsys fs.FS, opts ...Option) (*Registry, error) {
	r := &Registry{
		templates: make(map[string]*htmltemplate.Template),
		meta:      make(map[string]Meta),
	}

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}
		tmpl, err := htmltemplate.New(path).Option("missingkey=error").Parse(string(raw))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		r.templates[path] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Handle is a resolved template ready to render.
type Handle struct {
	name string
	tmpl *htmltemplate.Template
	meta Meta
}

// Get resolves a template by name.
func (r *Registry) Get(name string) (*Handle, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, domain.ErrNotFound(fmt.Sprintf("template %q is not registered", name))
	}
	return &Handle{name: name, tmpl: tmpl, meta: r.meta[name]}, nil
}

// Names returns the registered template names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Name returns the template's registered name.
func (h *Handle) Name() string {
	return h.name
}

// Meta returns the template's metadata.
func (h *Handle) Meta() Meta {
	return h.meta
}

// Render executes the template against data and returns the markup string.
// The underlying templating failure is propagated, not swallowed.
func (h *Handle) Render(data map[string]any) (string, error) {
	var sb strings.Builder
	if err := h.tmpl.Execute(&sb, data); err != nil {
		return "", domain.ErrRender(fmt.Sprintf("render template %q", h.name)).WithCause(err)
	}
	return sb.String(), nil
}
