package agent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "avika_turns_total",
		Help: "Conversation turns handled, by mode.",
	}, []string{"mode"})

	answersRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "avika_answers_recorded_total",
		Help: "Questionnaire answers recorded, by source.",
	}, []string{"source"})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "avika_sessions_active",
		Help: "Assessment sessions currently held in memory.",
	})
)
