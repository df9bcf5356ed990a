package overlay

import "github.com/prometheus/client_golang/prometheus"

const (
	sourceCached  = "cached"
	sourceFetched = "fetched"
	sourceNone    = "none"

	kindPrefetch   = "prefetch"
	kindForeground = "foreground"

	resultOK          = "ok"
	resultUnavailable = "unavailable"
	resultDiscarded   = "discarded"

	reasonTimer      = "timer"
	reasonManual     = "manual"
	reasonSuperseded = "superseded"
)

// Metrics counts overlay activity. A nil *Metrics records nothing.
type Metrics struct {
	shown      *prometheus.CounterVec
	fetches    *prometheus.CounterVec
	dismissals *prometheus.CounterVec
}

// NewMetrics creates the overlay collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		shown: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trainerwatch",
				Subsystem: "overlay",
				Name:      "shown_total",
				Help:      "Quotes put on screen, by where the quote came from.",
			},
			[]string{"source"},
		),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trainerwatch",
				Subsystem: "overlay",
				Name:      "fetches_total",
				Help:      "Completed quote fetches, by kind and result.",
			},
			[]string{"kind", "result"},
		),
		dismissals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trainerwatch",
				Subsystem: "overlay",
				Name:      "dismissals_total",
				Help:      "Overlay dismissals and restarts, by reason.",
			},
			[]string{"reason"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.shown, m.fetches, m.dismissals)
	}
	return m
}

func (m *Metrics) observeShown(source string) {
	if m == nil {
		return
	}
	m.shown.WithLabelValues(source).Inc()
}

func (m *Metrics) observeFetch(kind, result string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) observeDismissed(reason string) {
	if m == nil {
		return
	}
	m.dismissals.WithLabelValues(reason).Inc()
}
