package quote

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Distinct wraps a Fetcher and re-asks it when the result is a near-duplicate
// of the previous quote. After Retries attempts the last result is returned
// as-is; a repeat is better than nothing.
type Distinct struct {
	Next Fetcher
	// Threshold is the edit distance, relative to the longer text, at or below
	// which two quotes count as the same. Zero means 0.15.
	Threshold float64
	Retries   int

	mu   sync.Mutex
	last string
}

func (d *Distinct) FetchQuote(ctx context.Context) (Quote, error) {
	var (
		q   Quote
		err error
	)
	for attempt := 0; attempt <= d.Retries; attempt++ {
		q, err = d.Next.FetchQuote(ctx)
		if err != nil {
			return Quote{}, err
		}
		if !d.seen(q) {
			break
		}
	}
	d.mu.Lock()
	d.last = normalize(q.Text)
	d.mu.Unlock()
	return q, nil
}

func (d *Distinct) seen(q Quote) bool {
	d.mu.Lock()
	last := d.last
	d.mu.Unlock()
	if last == "" {
		return false
	}
	return similar(last, normalize(q.Text), d.threshold())
}

func (d *Distinct) threshold() float64 {
	if d.Threshold <= 0 {
		return 0.15
	}
	return d.Threshold
}

func similar(a, b string, threshold float64) bool {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return true
	}
	dist := levenshtein.ComputeDistance(a, b)
	return float64(dist)/float64(longest) <= threshold
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
