package artifact

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/pdf"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/render"
)

// SessionSource checks rendering sessions in and out. *render.Pool
// implements it.
type SessionSource interface {
	Acquire(ctx context.Context) (render.Session, error)
	Release(s render.Session)
}

// Compositor renders the primary document, assembles attachments, and
// merges everything into one PDF in the contractual order:
// primary, then per attachment (cover, content).
type Compositor struct {
	sessions  SessionSource
	assembler *Assembler
	merger    pdf.Merger
	logger    *slog.Logger
}

// NewCompositor creates a compositor.
func NewCompositor(sessions SessionSource, merger pdf.Merger, logger *slog.Logger) *Compositor {
	return &Compositor{
		sessions:  sessions,
		assembler: NewAssembler(logger),
		merger:    merger,
		logger:    logger,
	}
}

// Compose builds the final document. One rendering session serves the whole
// request and is released on every exit path. A primary pagination failure
// or a merge failure aborts the request; individual attachment problems are
// handled by the assembler.
func (c *Compositor) Compose(ctx context.Context, primaryMarkup string, associatedMarkup []string, rawAttachments []string) ([]byte, error) {
	session, err := c.sessions.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire rendering session: %w", err)
	}
	defer c.sessions.Release(session)

	primary, err := session.Paginate(ctx, primaryMarkup, render.Options{PrintBackground: true})
	if err != nil {
		return nil, fmt.Errorf("paginate primary document: %w", err)
	}

	fragments, err := c.assembler.Build(ctx, session, associatedMarkup, rawAttachments)
	if err != nil {
		return nil, err
	}

	ordered := make([][]byte, 0, 1+2*len(fragments))
	ordered = append(ordered, primary)
	for _, frag := range fragments {
		ordered = append(ordered, frag.Cover, frag.Content)
	}

	merged, err := c.merger.Merge(ordered)
	if err != nil {
		return nil, err
	}
	return merged, nil
}
