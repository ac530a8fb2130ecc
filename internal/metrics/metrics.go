// Package metrics exposes Prometheus collectors for match activity
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/KirkDiggler/egg-brawl/internal/errors"
)

const namespace = "egg_brawl"

// Commit results
const (
	CommitAccepted = "accepted"
	CommitRejected = "rejected"
)

// Match results
const (
	MatchWinner = "winner"
	MatchDraw   = "draw"
)

// Config holds the registry collectors are registered on
type Config struct {
	Registerer prometheus.Registerer
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.Registerer == nil {
		vb.RequiredField("Registerer")
	}
	return vb.Build()
}

// Metrics records match activity. A nil *Metrics is a no-op.
type Metrics struct {
	roundsResolved  prometheus.Counter
	commits         *prometheus.CounterVec
	deaths          *prometheus.CounterVec
	matchesFinished *prometheus.CounterVec
}

// New creates and registers the collectors
func New(cfg *Config) (*Metrics, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	m := &Metrics{
		roundsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_resolved_total",
			Help:      "Rounds resolved by authorities.",
		}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Move commits by result.",
		}, []string{"result"}),
		deaths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deaths_total",
			Help:      "Participant deaths by reason.",
		}, []string{"reason"}),
		matchesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_finished_total",
			Help:      "Finished matches by result.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{m.roundsResolved, m.commits, m.deaths, m.matchesFinished} {
		if err := cfg.Registerer.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register collector")
		}
	}

	return m, nil
}

// RoundResolved counts one resolved round
func (m *Metrics) RoundResolved() {
	if m == nil {
		return
	}
	m.roundsResolved.Inc()
}

// Commit counts a commit with the given result
func (m *Metrics) Commit(result string) {
	if m == nil {
		return
	}
	m.commits.WithLabelValues(result).Inc()
}

// Death counts a participant death
func (m *Metrics) Death(reason string) {
	if m == nil {
		return
	}
	m.deaths.WithLabelValues(reason).Inc()
}

// MatchFinished counts a finished match
func (m *Metrics) MatchFinished(draw bool) {
	if m == nil {
		return
	}
	result := MatchWinner
	if draw {
		result = MatchDraw
	}
	m.matchesFinished.WithLabelValues(result).Inc()
}
