package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanverse_turns_processed_total",
			Help: "Total number of conversation turns processed",
		},
		[]string{"channel", "phase"},
	)

	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loanverse_turn_duration_seconds",
			Help:    "Duration of a conversation turn in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"channel"},
	)

	PhaseTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanverse_phase_transitions_total",
			Help: "Total number of phase transitions",
		},
		[]string{"from", "to"},
	)

	UnderwritingDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanverse_underwriting_decisions_total",
			Help: "Underwriting decisions by status",
		},
		[]string{"status"},
	)

	NegotiationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanverse_negotiation_attempts_total",
			Help: "Negotiation responses by domain and tier",
		},
		[]string{"domain", "tier"},
	)

	HumanHandoffs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanverse_human_handoffs_total",
			Help: "Conversations escalated to a human",
		},
		[]string{"reason"},
	)

	ComplianceBlocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanverse_compliance_blocks_total",
			Help: "Turns blocked by the compliance guardrail",
		},
		[]string{"category"},
	)

	SanctionsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loanverse_sanctions_issued_total",
			Help: "Sanction letters generated",
		},
	)

	FollowUpsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loanverse_follow_ups_sent_total",
			Help: "Idle-session reminders sent over WhatsApp",
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loanverse_active_sessions",
			Help: "Sessions touched within the session TTL",
		},
	)
)
