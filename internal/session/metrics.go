package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	roundsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trivia_rounds_started_total",
		Help: "Rounds started, including replays.",
	})

	answersResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trivia_answers_resolved_total",
		Help: "Resolved answers by correctness.",
	}, []string{"correct"})

	fallbackEscalations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trivia_fallback_escalations_total",
		Help: "Fallback escalations by resulting level.",
	}, []string{"level"})
)
