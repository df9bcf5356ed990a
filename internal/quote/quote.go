// Package quote provides the motivational quote sources shown after a diary
// entry is logged.
package quote

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable means no quote could be produced: network failure, a
// malformed payload, rate limiting, or a cancelled request.
var ErrUnavailable = errors.New("quote unavailable")

// Quote is an immutable motivational quote.
type Quote struct {
	Text   string
	Author string
}

// Empty reports whether q carries no text.
func (q Quote) Empty() bool {
	return strings.TrimSpace(q.Text) == ""
}

func (q Quote) String() string {
	if q.Author == "" {
		return q.Text
	}
	return q.Text + " - " + q.Author
}

// Fetcher produces one quote per call. Implementations must be safe for
// concurrent use; every failure is reported as an error wrapping ErrUnavailable.
type Fetcher interface {
	FetchQuote(ctx context.Context) (Quote, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (Quote, error)

func (f FetcherFunc) FetchQuote(ctx context.Context) (Quote, error) { return f(ctx) }
