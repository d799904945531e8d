// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Gather API.

# Route Registration

NewRouter builds a chi router with all endpoints:

	handler := router.NewRouter(store, cfg, notifier)

# Middleware

Applied to every request, in order: panic recovery, request logging with
request IDs, Prometheus metrics, CORS (go-chi/cors), and optional bearer
token authentication.

Write routes additionally require a signed-in user and are rate limited
per user with go-chi/httprate (RATE_LIMIT_PER_MINUTE, 0 disables).

# Endpoints

Operations:

	GET /health   - Database ping
	GET /metrics  - Prometheus metrics

Polls:

	POST /communities/{communityID}/polls - Create poll
	GET  /polls/{pollID}                  - Poll with caller's vote
	POST /polls/{pollID}/votes            - Vote
	POST /polls/{pollID}/end              - End poll
	POST /polls/{pollID}/hide             - Hide poll

Meetings:

	POST   /groups/{groupID}/meetings         - Create meeting
	GET    /meetings/{meetingID}              - Meeting with counts
	GET    /meetings/{meetingID}/participants - Attendees, then waitlist
	POST   /meetings/{meetingID}/attend       - Join or waitlist
	DELETE /meetings/{meetingID}/attend       - Leave
	PATCH  /meetings/{meetingID}/capacity     - Change capacity, promote

Handlers read path parameters with r.PathValue, which chi fills in while
routing.
*/
package router
