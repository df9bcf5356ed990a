// Package feedback provides fire-and-forget haptic cues. In a terminal the
// closest thing to a tap on the wrist is the bell.
package feedback

import (
	"io"
	"sync"
)

// Cue identifies a feedback pattern.
type Cue string

const (
	CueClick        Cue = "click"
	CueDirectionUp  Cue = "direction_up"
	CueNotification Cue = "notification"
	CueSuccess      Cue = "success"
)

// Haptics plays cues. Implementations must not block the caller.
type Haptics interface {
	Play(cue Cue)
}

// Nop plays nothing.
type Nop struct{}

func (Nop) Play(Cue) {}

// Bell rings the terminal bell: once for most cues, twice for a notification.
// Write errors are ignored.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

func NewBell(w io.Writer) *Bell { return &Bell{w: w} }

func (b *Bell) Play(cue Cue) {
	if b == nil || b.w == nil {
		return
	}
	rings := "\a"
	switch cue {
	case CueClick:
		return
	case CueNotification:
		rings = "\a\a"
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.w, rings)
}

// Recorder keeps every cue it is asked to play.
type Recorder struct {
	mu   sync.Mutex
	cues []Cue
}

func (r *Recorder) Play(cue Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, cue)
}

// Cues returns a copy of the recorded cues.
func (r *Recorder) Cues() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Cue(nil), r.cues...)
}
