package render

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/domain"
)

// ErrPoolClosed is returned from Acquire after Close.
var ErrPoolClosed = errors.New("render: pool is closed")

// Pool is a bounded checkout/checkin pool of rendering sessions. Sessions
// are created lazily up to the pool size and reused across requests; a
// request holds at most one session and returns it on every exit path.
type Pool struct {
	controlURL string
	slots      chan Session
	logger     *slog.Logger

	mu     sync.Mutex
	closed bool

	// newSession is swapped out in tests.
	newSession func() (Session, error)
}

// NewPool creates a pool of up to size sessions against the browser at
// controlURL (see Launch).
func NewPool(controlURL string, size int, logger *slog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		controlURL: controlURL,
		slots:      make(chan Session, size),
		logger:     logger,
	}
	p.newSession = func() (Session, error) {
		return newBrowserSession(p.controlURL)
	}
	// Fill with empty slots; a nil session means "create on first checkout".
	for i := 0; i < size; i++ {
		p.slots <- nil
	}
	return p
}

// Acquire checks out a session, creating one if this slot has never been
// used. It blocks until a slot frees up or ctx is done.
func (p *Pool) Acquire(ctx context.Context) (Session, error) {
	select {
	case s, ok := <-p.slots:
		if !ok {
			return nil, ErrPoolClosed
		}
		if s != nil {
			return s, nil
		}
		created, err := p.newSession()
		if err != nil {
			// Give the slot back so the pool does not shrink on a
			// transient launch failure.
			p.checkin(nil)
			return nil, err
		}
		return created, nil
	case <-ctx.Done():
		return nil, domain.ErrRender("waiting for rendering session").WithCause(ctx.Err())
	}
}

// Release returns a session to the pool. Safe to call with the session a
// failed Acquire never produced.
func (p *Pool) Release(s Session) {
	if s == nil {
		return
	}
	p.checkin(s)
}

func (p *Pool) checkin(s Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		if s != nil {
			if err := s.Close(); err != nil {
				p.logger.Warn("closing rendering session", slog.String("error", err.Error()))
			}
		}
		return
	}
	p.slots <- s
}

// Close shuts down every idle session and marks the pool closed. Sessions
// checked out at the time of the call are closed on release.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.slots)
	p.mu.Unlock()

	for s := range p.slots {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil {
			p.logger.Warn("closing rendering session", slog.String("error", err.Error()))
		}
	}
}
