package quote

import (
	"context"
	"fmt"
	"sync"
)

var builtin = []Quote{
	{Text: "The secret of getting ahead is getting started.", Author: "Mark Twain"},
	{Text: "It does not matter how slowly you go as long as you do not stop.", Author: "Confucius"},
	{Text: "Take care of your body. It's the only place you have to live.", Author: "Jim Rohn"},
	{Text: "Small steps every day add up to big results.", Author: "Unknown"},
	{Text: "Well done is better than well said.", Author: "Benjamin Franklin"},
	{Text: "You don't have to be great to start, but you have to start to be great.", Author: "Zig Ziglar"},
	{Text: "Energy and persistence conquer all things.", Author: "Benjamin Franklin"},
	{Text: "What you do today can improve all your tomorrows.", Author: "Ralph Marston"},
}

// Offline serves quotes from a fixed list in rotation. It never fails unless
// the list is empty or ctx is already done.
type Offline struct {
	Quotes []Quote

	mu   sync.Mutex
	next int
}

// NewOffline returns an Offline source over the built-in quotes.
func NewOffline() *Offline {
	return &Offline{Quotes: builtin}
}

func (o *Offline) FetchQuote(ctx context.Context) (Quote, error) {
	if err := ctx.Err(); err != nil {
		return Quote{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.Quotes) == 0 {
		return Quote{}, ErrUnavailable
	}
	q := o.Quotes[o.next%len(o.Quotes)]
	o.next++
	return q, nil
}
