package template

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/domain"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"invoice.html": &fstest.MapFile{
			Data: []byte(`<html><body><h1>Invoice</h1><p>{{.name}} ({{.email}})</p></body></html>`),
		},
		"cover.html": &fstest.MapFile{
			Data: []byte(`<html><body><h4>{{.title}}</h4></body></html>`),
		},
		"notes.txt": &fstest.MapFile{Data: []byte("not a template")},
	}
}

func TestRegistryGetAndRender(t *testing.T) {
	reg, err := NewRegistry(testFS())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	handle, err := reg.Get("invoice.html")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	markup, err := handle.Render(map[string]any{"name": "John Doe", "email": "john@example.com"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(markup, "John Doe") || !strings.Contains(markup, "john@example.com") {
		t.Errorf("rendered markup missing data: %q", markup)
	}
}

func TestRegistryUnknownTemplate(t *testing.T) {
	reg, err := NewRegistry(testFS())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	_, err = reg.Get("nope.html")
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
	if kind := domain.KindOf(err); kind != domain.ErrorKindNotFound {
		t.Errorf("error kind = %v, want not_found", kind)
	}
}

func TestRenderMissingFieldFails(t *testing.T) {
	reg, err := NewRegistry(testFS())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	handle, err := reg.Get("invoice.html")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	_, err = handle.Render(map[string]any{"name": "John Doe"})
	if err == nil {
		t.Fatal("expected render failure for missing field")
	}
	if kind := domain.KindOf(err); kind != domain.ErrorKindRender {
		t.Errorf("error kind = %v, want render", kind)
	}
}

func TestRegistryNamesAndMeta(t *testing.T) {
	reg, err := NewRegistry(testFS(), WithMeta("invoice.html", Meta{
		Associated:         []string{"cover.html"},
		HasIDTeamChecklist: true,
	}))
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	names := reg.Names()
	if len(names) != 2 || names[0] != "cover.html" || names[1] != "invoice.html" {
		t.Errorf("Names() = %v", names)
	}

	handle, err := reg.Get("invoice.html")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	meta := handle.Meta()
	if !meta.HasIDTeamChecklist || len(meta.Associated) != 1 {
		t.Errorf("unexpected meta: %+v", meta)
	}
}
