// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

WithLogging assigns each request an ID (reusing X-Request-ID when sent),
stores it in the context for logging.Ctx, and logs completion with
method, path, status and duration_ms:

	r.Use(middleware.WithLogging)

# Authentication

Authenticate accepts an optional bearer token and stores its subject:

	r.Use(middleware.Authenticate(cfg.JWTSecret))
	r.With(middleware.RequireUser).Post("/polls/{pollID}/votes", h.Vote)

	userID := middleware.UserID(r.Context())

# Metrics

Metrics counts requests and observes latency per chi route pattern.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Write a domain error with the right status code:

	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

Status mapping: validation and state errors 400, authorization 403, not
found 404, conflict 409, anything else 500 with a generic message.

Parse and validate request bodies (validate struct tags, JSON field names
in messages):

	var req models.CreateMeetingRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Handles X-Forwarded-For and X-Real-IP.
*/
package middleware
