// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/gather/access"
	"github.com/danielhkuo/gather/cliparse"
	"github.com/danielhkuo/gather/db"
	"github.com/danielhkuo/gather/handlers"
	"github.com/danielhkuo/gather/meetings"
	"github.com/danielhkuo/gather/middleware"
	"github.com/danielhkuo/gather/notify"
	"github.com/danielhkuo/gather/polls"
)

func NewRouter(store *db.Store, cfg cliparse.Config, notifier notify.Notifier) http.Handler {
	r := chi.NewRouter()

	// Initialize handlers
	policy := access.NewSQLPolicy(store)
	pollHandler := handlers.NewPollHandler(
		polls.NewEngine(store, polls.WithMaxAttempts(cfg.VoteMaxAttempts)),
		policy,
	)
	meetingHandler := handlers.NewMeetingHandler(meetings.NewEngine(store), policy, notifier)
	healthHandler := handlers.NewHealthHandler(store)

	r.Use(chimw.Recoverer)
	r.Use(middleware.WithLogging)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.Authenticate(cfg.JWTSecret))

	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Public reads
	r.Get("/polls/{pollID}", pollHandler.GetPoll)
	r.Get("/meetings/{meetingID}", meetingHandler.GetMeeting)
	r.Get("/meetings/{meetingID}/participants", meetingHandler.ListParticipants)

	// Writes need a signed-in user
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Use(rateLimit(cfg.RateLimit))

		r.Post("/communities/{communityID}/polls", pollHandler.CreatePoll)
		r.Post("/polls/{pollID}/votes", pollHandler.Vote)
		r.Post("/polls/{pollID}/end", pollHandler.EndPoll)
		r.Post("/polls/{pollID}/hide", pollHandler.HidePoll)

		r.Post("/groups/{groupID}/meetings", meetingHandler.CreateMeeting)
		r.Post("/meetings/{meetingID}/attend", meetingHandler.Attend)
		r.Delete("/meetings/{meetingID}/attend", meetingHandler.Unattend)
		r.Patch("/meetings/{meetingID}/capacity", meetingHandler.UpdateCapacity)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("gather API v1"))
	})

	return r
}

// rateLimit limits each user to perMinute writes. Zero or less disables it.
func rateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return middleware.UserID(r.Context()), nil
		}),
	)
}
