// Package render turns markup strings into paginated PDF documents using a
// headless browser, managed through a bounded session pool.
package render

import (
	"context"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/domain"
)

// Options control a single pagination call.
type Options struct {
	PrintBackground bool
}

// Paginator converts a markup string into PDF bytes.
type Paginator interface {
	Paginate(ctx context.Context, markup string, opts Options) ([]byte, error)
}

// Session is a checked-out rendering session. A session serves one request
// at a time and must be returned to its pool when the request finishes; the
// pool owns Close.
type Session interface {
	Paginator
	Close() error
}

// browserSession paginates through one headless-browser connection. The
// connection is reused across pagination calls within a request; each call
// opens and closes its own page.
type browserSession struct {
	browser *rod.Browser
}

func newBrowserSession(controlURL string) (*browserSession, error) {
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, domain.ErrRender("connect to rendering engine").WithCause(err)
	}
	return &browserSession{browser: browser}, nil
}

// Paginate loads markup into a fresh page and prints it to PDF. The page is
// closed on every exit path.
func (s *browserSession) Paginate(ctx context.Context, markup string, opts Options) ([]byte, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, domain.ErrRender("open rendering page").WithCause(err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.SetDocumentContent(markup); err != nil {
		return nil, domain.ErrRender("load markup").WithCause(err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, domain.ErrRender("wait for page load").WithCause(err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: opts.PrintBackground,
	})
	if err != nil {
		return nil, domain.ErrRender("print to PDF").WithCause(err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, domain.ErrRender("read PDF stream").WithCause(err)
	}
	return data, nil
}

func (s *browserSession) Close() error {
	return s.browser.Close()
}

// Launch starts a headless browser process and returns its control URL.
func Launch() (string, error) {
	return launcher.New().Headless(true).Launch()
}
