package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trivia_turns_total",
		Help: "Inbound turns by intent.",
	}, []string{"intent"})

	sessionsEnded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trivia_sessions_ended_total",
		Help: "Turns that closed the conversation.",
	})
)
