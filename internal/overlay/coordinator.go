// Package overlay schedules the motivational quote overlay shown after each
// diary entry.
//
// The Coordinator is owned by the Bubble Tea update loop: every method and
// Update must be called from that loop only. Asynchronous work (quote fetches
// and the dismiss timer) runs as tea.Cmds whose results come back as messages
// tagged with the generation of the task that started them. A message whose
// generation is no longer current is dropped, so a superseded fetch or timer
// can never change what the user sees.
package overlay

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/jask/trainerwatch/internal/quote"
)

// DefaultDismissAfter is how long the overlay stays up after the latest trigger.
const DefaultDismissAfter = 3 * time.Second

// Options configures a Coordinator. Fetcher is required.
type Options struct {
	Fetcher      quote.Fetcher
	Clock        clockwork.Clock
	DismissAfter time.Duration
	Logger       *slog.Logger
	Metrics      *Metrics
}

// Coordinator owns the cached quote and the overlay flags.
type Coordinator struct {
	ctx     context.Context
	fetcher quote.Fetcher
	clock   clockwork.Clock
	delay   time.Duration
	logger  *slog.Logger
	metrics *Metrics

	cached  *quote.Quote
	shown   *quote.Quote
	loading bool
	visible bool

	gen     uint64
	pending *task
}

// task is the single outstanding fetch-then-show sequence or dismiss timer.
type task struct {
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// State is a read-only view for renderers.
type State struct {
	Visible bool
	Loading bool
	Quote   *quote.Quote // quote on screen, nil when none is available
	Cached  *quote.Quote // quote the next trigger will show immediately
}

// New returns a Coordinator. ctx bounds every fetch it starts.
func New(ctx context.Context, opts Options) *Coordinator {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.DismissAfter <= 0 {
		opts.DismissAfter = DefaultDismissAfter
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Coordinator{
		ctx:     ctx,
		fetcher: opts.Fetcher,
		clock:   opts.Clock,
		delay:   opts.DismissAfter,
		logger:  opts.Logger.With("component", "overlay"),
		metrics: opts.Metrics,
	}
}

func (c *Coordinator) Visible() bool { return c.visible }

func (c *Coordinator) Loading() bool { return c.loading }

// Quote returns the quote currently on screen.
func (c *Coordinator) Quote() *quote.Quote { return c.shown }

// Cached returns the quote held for the next trigger.
func (c *Coordinator) Cached() *quote.Quote { return c.cached }

func (c *Coordinator) State() State {
	return State{Visible: c.visible, Loading: c.loading, Quote: c.shown, Cached: c.cached}
}

// Launch warms the cache without touching the overlay flags.
func (c *Coordinator) Launch() tea.Cmd {
	return c.prefetch()
}

// EntryLogged shows the overlay for a newly recorded diary entry. Any pending
// fetch or timer is cancelled first, so the overlay stays up for one full
// dismiss window measured from the latest call.
func (c *Coordinator) EntryLogged() tea.Cmd {
	c.cancelPending(reasonSuperseded)
	c.visible = true
	t := c.startTask()

	if c.cached != nil {
		c.shown = c.cached
		c.loading = false
		c.metrics.observeShown(sourceCached)
		return tea.Batch(c.dismissAfter(t), c.prefetch())
	}

	c.shown = nil
	c.loading = true
	return c.fetchAndShow(t)
}

// DismissNow hides the overlay immediately and cancels whatever was pending.
func (c *Coordinator) DismissNow() {
	if c.visible {
		c.metrics.observeDismissed(reasonManual)
	}
	c.cancelPending("")
	c.visible = false
}

// Update applies a message produced by one of the Coordinator's commands.
// It reports false for messages it does not own.
func (c *Coordinator) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch m := msg.(type) {
	case prefetchedMsg:
		if m.err != nil {
			c.metrics.observeFetch(kindPrefetch, resultUnavailable)
			c.logger.Debug("prefetch failed", "error", m.err)
			return nil, true
		}
		c.metrics.observeFetch(kindPrefetch, resultOK)
		q := m.quote
		c.cached = &q
		return nil, true

	case fetchedMsg:
		if !c.current(m.gen) {
			c.metrics.observeFetch(kindForeground, resultDiscarded)
			return nil, true
		}
		c.loading = false
		if m.err != nil {
			c.metrics.observeFetch(kindForeground, resultUnavailable)
			c.metrics.observeShown(sourceNone)
			c.logger.Debug("quote unavailable", "error", m.err)
		} else {
			c.metrics.observeFetch(kindForeground, resultOK)
			c.metrics.observeShown(sourceFetched)
			q := m.quote
			c.cached = &q
			c.shown = &q
		}
		return c.dismissAfter(c.pending), true

	case dismissMsg:
		if !c.current(m.gen) {
			return nil, true
		}
		c.pending.cancel()
		c.pending = nil
		c.visible = false
		c.metrics.observeDismissed(reasonTimer)
		return nil, true
	}
	return nil, false
}

func (c *Coordinator) current(gen uint64) bool {
	return c.pending != nil && c.pending.gen == gen
}

func (c *Coordinator) startTask() *task {
	c.gen++
	ctx, cancel := context.WithCancel(c.ctx)
	c.pending = &task{gen: c.gen, ctx: ctx, cancel: cancel}
	return c.pending
}

// cancelPending drops the pending task. A cancelled fetch can no longer clear
// the loading flag, so it is cleared here.
func (c *Coordinator) cancelPending(reason string) {
	if c.pending == nil {
		return
	}
	if reason != "" && c.visible {
		c.metrics.observeDismissed(reason)
	}
	c.pending.cancel()
	c.pending = nil
	c.loading = false
}

func (c *Coordinator) prefetch() tea.Cmd {
	ctx, fetcher := c.ctx, c.fetcher
	return func() tea.Msg {
		q, err := fetcher.FetchQuote(ctx)
		return prefetchedMsg{quote: q, err: err}
	}
}

func (c *Coordinator) fetchAndShow(t *task) tea.Cmd {
	fetcher := c.fetcher
	return func() tea.Msg {
		q, err := fetcher.FetchQuote(t.ctx)
		return fetchedMsg{gen: t.gen, quote: q, err: err}
	}
}

// dismissAfter fixes the deadline now rather than when the command runs.
func (c *Coordinator) dismissAfter(t *task) tea.Cmd {
	clock := c.clock
	deadline := clock.Now().Add(c.delay)
	return func() tea.Msg {
		d := clock.Until(deadline)
		if d <= 0 {
			return dismissMsg{gen: t.gen}
		}
		timer := clock.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.Chan():
			return dismissMsg{gen: t.gen}
		case <-t.ctx.Done():
			return nil
		}
	}
}

type prefetchedMsg struct {
	quote quote.Quote
	err   error
}

type fetchedMsg struct {
	gen   uint64
	quote quote.Quote
	err   error
}

type dismissMsg struct {
	gen uint64
}
