// Package pdf merges paginated document fragments into one PDF.
package pdf

import (
	"bytes"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/domain"
)

// Merger concatenates PDF fragments, preserving page order and content.
type Merger interface {
	Merge(fragments [][]byte) ([]byte, error)
}

// PDFCPUMerger merges fragments in memory with pdfcpu. No re-pagination or
// renumbering happens; pages carry whatever each fragment already has.
type PDFCPUMerger struct {
	conf *model.Configuration
}

// NewMerger creates a merger with pdfcpu's default configuration.
func NewMerger() *PDFCPUMerger {
	return &PDFCPUMerger{conf: model.NewDefaultConfiguration()}
}

// Merge combines fragments in the given order into a single document.
// A corrupt fragment fails the whole merge.
func (m *PDFCPUMerger) Merge(fragments [][]byte) ([]byte, error) {
	if len(fragments) == 0 {
		return nil, domain.ErrInternal("no document fragments to merge")
	}

	readers := make([]io.ReadSeeker, len(fragments))
	for i, frag := range fragments {
		readers[i] = bytes.NewReader(frag)
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, m.conf); err != nil {
		return nil, domain.ErrInternal("merge document fragments").WithCause(err)
	}
	return out.Bytes(), nil
}
