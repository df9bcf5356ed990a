package overlay

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/jask/trainerwatch/internal/quote"
)

const waitTimeout = 2 * time.Second

// fetchCall is one in-flight FetchQuote call awaiting a scripted reply.
type fetchCall struct {
	ctx   context.Context
	reply chan fetchResult
}

type fetchResult struct {
	quote quote.Quote
	err   error
}

// fakeFetcher blocks every call until the test replies to it. With
// ignoreCancel set it behaves like a backend that finishes its work even
// after the caller has given up.
type fakeFetcher struct {
	ignoreCancel bool

	mu      sync.Mutex
	calls   []*fetchCall
	arrived chan struct{}
}

func newFakeFetcher(t *testing.T) *fakeFetcher {
	f := &fakeFetcher{arrived: make(chan struct{}, 64)}
	t.Cleanup(func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, c := range f.calls {
			select {
			case c.reply <- fetchResult{err: quote.ErrUnavailable}:
			default:
			}
		}
	})
	return f
}

func (f *fakeFetcher) FetchQuote(ctx context.Context) (quote.Quote, error) {
	call := &fetchCall{ctx: ctx, reply: make(chan fetchResult, 1)}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	f.arrived <- struct{}{}

	if f.ignoreCancel {
		r := <-call.reply
		return r.quote, r.err
	}
	select {
	case r := <-call.reply:
		return r.quote, r.err
	case <-ctx.Done():
		return quote.Quote{}, fmt.Errorf("%w: %w", quote.ErrUnavailable, ctx.Err())
	}
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// waitCalls blocks until at least n calls have started.
func (f *fakeFetcher) waitCalls(t *testing.T, n int) {
	t.Helper()
	deadline := time.After(waitTimeout)
	for f.count() < n {
		select {
		case <-f.arrived:
		case <-deadline:
			t.Fatalf("timed out waiting for %d fetch calls, got %d", n, f.count())
		}
	}
}

func (f *fakeFetcher) call(i int) *fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

func (f *fakeFetcher) succeed(i int, q quote.Quote) {
	f.call(i).reply <- fetchResult{quote: q}
}

func (f *fakeFetcher) fail(i int) {
	f.call(i).reply <- fetchResult{err: fmt.Errorf("%w: connection refused", quote.ErrUnavailable)}
}

// harness plays the part of the Bubble Tea runtime: commands run on their own
// goroutines and their messages are applied one at a time on the test goroutine.
type harness struct {
	t       *testing.T
	c       *Coordinator
	clock   *clockwork.FakeClock
	fetcher *fakeFetcher
	msgs    chan tea.Msg
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := clockwork.NewFakeClock()
	fetcher := newFakeFetcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return &harness{
		t:       t,
		c:       New(ctx, Options{Fetcher: fetcher, Clock: clock}),
		clock:   clock,
		fetcher: fetcher,
		msgs:    make(chan tea.Msg, 64),
	}
}

func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				h.run(c)
			}
			return
		}
		if msg != nil {
			h.msgs <- msg
		}
	}()
}

func (h *harness) apply(msg tea.Msg) {
	cmd, ok := h.c.Update(msg)
	require.True(h.t, ok, "coordinator ignored %T", msg)
	h.run(cmd)
}

// waitFor applies messages until cond holds.
func (h *harness) waitFor(desc string, cond func() bool) {
	h.t.Helper()
	deadline := time.After(waitTimeout)
	for !cond() {
		select {
		case msg := <-h.msgs:
			h.apply(msg)
		case <-deadline:
			h.t.Fatalf("timed out waiting for %s", desc)
		}
	}
}

// settle applies whatever arrives within a short real-time window.
func (h *harness) settle() {
	timeout := time.After(50 * time.Millisecond)
	for {
		select {
		case msg := <-h.msgs:
			h.apply(msg)
		case <-timeout:
			return
		}
	}
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
}

// warm runs Launch and answers its fetch with q.
func (h *harness) warm(q quote.Quote) {
	h.t.Helper()
	before := h.fetcher.count()
	h.run(h.c.Launch())
	h.fetcher.waitCalls(h.t, before+1)
	h.fetcher.succeed(before, q)
	h.waitFor("cache warm", func() bool { return h.c.Cached() != nil })
}
