// Package metrics exposes Prometheus instruments for rounds, guesses, and
// hint-policy decisions. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wordpuzzle"

type Metrics struct {
	guesses     *prometheus.CounterVec
	rewards     prometheus.Histogram
	actions     *prometheus.CounterVec
	solved      *prometheus.CounterVec
	saveErrors  prometheus.Counter
	roundsBegun prometheus.Counter
}

// New registers the instruments on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		guesses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guesses_total",
			Help:      "Guesses by outcome.",
		}, []string{"outcome"}),
		rewards: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "guess_reward",
			Help:      "Reward fed to the hint policy per guess.",
			Buckets:   []float64{-1, 0, 1, 10},
		}),
		actions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_actions_total",
			Help:      "Hint actions selected by the policy.",
		}, []string{"action", "effective"}),
		solved: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_solved_total",
			Help:      "Solved rounds by difficulty rating.",
		}, []string{"difficulty"}),
		saveErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_save_errors_total",
			Help:      "Failed writes of the policy table.",
		}),
		roundsBegun: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_started_total",
			Help:      "Rounds started.",
		}),
	}
}

func (m *Metrics) RoundStarted() {
	if m == nil {
		return
	}
	m.roundsBegun.Inc()
}

func (m *Metrics) Guess(outcome string, reward float64) {
	if m == nil {
		return
	}
	m.guesses.WithLabelValues(outcome).Inc()
	m.rewards.Observe(reward)
}

// Action records a policy decision; effective is false when the action
// revealed nothing new.
func (m *Metrics) Action(action string, effective bool) {
	if m == nil {
		return
	}
	eff := "false"
	if effective {
		eff = "true"
	}
	m.actions.WithLabelValues(action, eff).Inc()
}

func (m *Metrics) Solved(difficulty string) {
	if m == nil {
		return
	}
	m.solved.WithLabelValues(difficulty).Inc()
}

func (m *Metrics) SaveFailed() {
	if m == nil {
		return
	}
	m.saveErrors.Inc()
}
