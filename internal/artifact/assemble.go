package artifact

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/codec"
	"github.com/GSA-TTS/spiffworkflow-connector/internal/render"
)

// Fragment is one assembled attachment: a numbered cover page followed by
// the attachment content, both already paginated.
type Fragment struct {
	Cover   []byte
	Content []byte
}

// Assembler materializes attachments as paginated sub-documents with
// per-attachment cover pages.
type Assembler struct {
	logger *slog.Logger
}

// NewAssembler creates an assembler.
func NewAssembler(logger *slog.Logger) *Assembler {
	return &Assembler{logger: logger}
}

// Build assembles associated documents followed by user-supplied
// attachments, in input order within each group. Cover numbering is
// 1-based and counts only attachments that actually produce content:
// malformed or unsupported attachments are skipped with a warning and do
// not consume a number.
func (a *Assembler) Build(ctx context.Context, p render.Paginator, associatedMarkup []string, rawAttachments []string) ([]Fragment, error) {
	fragments := make([]Fragment, 0, len(associatedMarkup)+len(rawAttachments))

	for _, markup := range associatedMarkup {
		content, err := p.Paginate(ctx, markup, render.Options{PrintBackground: true})
		if err != nil {
			return nil, fmt.Errorf("paginate associated document: %w", err)
		}
		cover, err := a.coverPage(ctx, p, len(fragments)+1)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, Fragment{Cover: cover, Content: content})
	}

	for i, dataURL := range rawAttachments {
		decoded, err := codec.Decode(dataURL)
		if err != nil {
			a.logger.Warn("skipping unparsable attachment",
				slog.Int("attachment", i+1),
				slog.String("error", err.Error()))
			continue
		}

		var content []byte
		switch {
		case decoded.IsImage():
			content, err = p.Paginate(ctx, imageMarkup(dataURL), render.Options{})
			if err != nil {
				return nil, fmt.Errorf("paginate image attachment: %w", err)
			}
		case decoded.IsPDF():
			// Already paginated; the bytes go in as-is.
			content = decoded.Data
		default:
			a.logger.Warn("skipping unsupported attachment type",
				slog.Int("attachment", i+1),
				slog.String("media_type", decoded.MediaType))
			continue
		}

		cover, err := a.coverPage(ctx, p, len(fragments)+1)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, Fragment{Cover: cover, Content: content})
	}

	return fragments, nil
}

func (a *Assembler) coverPage(ctx context.Context, p render.Paginator, n int) ([]byte, error) {
	cover, err := p.Paginate(ctx, coverMarkup(n), render.Options{})
	if err != nil {
		return nil, fmt.Errorf("paginate cover page %d: %w", n, err)
	}
	return cover, nil
}

// coverMarkup is the divider page preceding attachment n.
func coverMarkup(n int) string {
	return fmt.Sprintf("<html><body><h4>Attachment %d</h4></body></html>", n)
}

// imageMarkup embeds an image attachment so it scales to the page.
func imageMarkup(dataURL string) string {
	return fmt.Sprintf(`<html><body style="margin:0; padding:0;"><img src=%q style="max-width:100%%; max-height:100%%; object-fit:contain;" /></body></html>`, dataURL)
}
