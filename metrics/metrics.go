// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Poll metrics
	PollsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gather_polls_created_total",
			Help: "Total number of polls created",
		},
	)

	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gather_poll_votes_total",
			Help: "Total number of accepted votes",
		},
		[]string{"action"}, // "created", "changed"
	)

	VoteRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gather_poll_vote_rejections_total",
			Help: "Total number of rejected votes",
		},
		[]string{"kind"}, // apperr kind
	)

	VoteConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gather_poll_version_conflicts_total",
			Help: "Total number of optimistic version conflicts on poll rewrites",
		},
	)

	// Meeting metrics
	AttendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gather_meeting_attend_total",
			Help: "Total number of new meeting participations",
		},
		[]string{"status"}, // "attending", "waitlisted"
	)

	Promotions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gather_meeting_promotions_total",
			Help: "Total number of waitlisted users promoted to attending",
		},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gather_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gather_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	NotificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gather_notification_failures_total",
			Help: "Total number of promotion notifications that could not be delivered",
		},
	)
)
