package bridge

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/drillkit/internal/drill"
)

// Bridge posts drill events to a host application.
type Bridge struct {
	w          io.Writer
	codec      Codec
	product    string
	contextIDs func() string
	dispatch   bool
	logger     *slog.Logger

	mu      sync.Mutex
	lastErr error
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithCodec sets the wire codec. The default is JSONCodec.
func WithCodec(c Codec) Option {
	return func(b *Bridge) { b.codec = c }
}

// WithProduct sets the product name posted in every envelope. The default
// is ProductAnalyticalDesigner.
func WithProduct(product string) Option {
	return func(b *Bridge) { b.product = product }
}

// WithContextIDs sets the generator of per-message context ids. Without it
// contextId is omitted.
func WithContextIDs(next func() string) Option {
	return func(b *Bridge) { b.contextIDs = next }
}

// WithDispatch controls whether the generic drill event is still dispatched
// after a successful post.
func WithDispatch(dispatch bool) Option {
	return func(b *Bridge) { b.dispatch = dispatch }
}

// WithLogger sets the logger used for post failures.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) { b.logger = logger }
}

// New creates a Bridge writing to w.
func New(w io.Writer, opts ...Option) *Bridge {
	b := &Bridge{
		w:       w,
		codec:   JSONCodec{},
		product: ProductAnalyticalDesigner,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Post writes ev as a drill envelope.
func (b *Bridge) Post(ev drill.DrillEvent) error {
	return b.post(EventDrill, ev)
}

func (b *Bridge) post(name string, data any) error {
	var contextID string
	if b.contextIDs != nil {
		contextID = b.contextIDs()
	}
	return b.write(name, contextID, data)
}

func (b *Bridge) write(name, contextID string, data any) error {
	env, err := NewEnvelope(b.product, name, contextID, data)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.codec.Encode(b.w, env); err != nil {
		return fmt.Errorf("post %s: %w", name, err)
	}
	return nil
}

// Callback returns a drill callback that posts every event. A failed post
// is logged, kept for Err, and lets the generic dispatch proceed.
func (b *Bridge) Callback() drill.Callback {
	return func(ev drill.DrillEvent) *bool {
		if err := b.Post(ev); err != nil {
			b.logger.Error("posting drill event failed", "product", b.product, "error", err)
			b.mu.Lock()
			if b.lastErr == nil {
				b.lastErr = err
			}
			b.mu.Unlock()
			return drill.Proceed()
		}
		if b.dispatch {
			return drill.Proceed()
		}
		return drill.Suppress()
	}
}

// Err returns the first post failure seen by Callback.
func (b *Bridge) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}
