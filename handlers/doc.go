// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Gather API.

# Handler Types

Each handler is a struct over the engines it drives:

  - PollHandler: poll creation, reads, votes, ending and hiding
  - MeetingHandler: meeting creation, attendance, capacity changes
  - HealthHandler: database liveness

Handlers are created via constructor functions:

	pollHandler := handlers.NewPollHandler(pollEngine, policy)
	meetingHandler := handlers.NewMeetingHandler(meetingEngine, policy, notifier)

# Request Flow

Every mutating handler does the same three things: check the access
policy for the caller from middleware.UserID, decode and validate the
body, then call the engine. Errors of any kind go through
middleware.WriteError, which picks the status code from the error kind.

# Polls

	POST /communities/{communityID}/polls → CreatePoll
	GET  /polls/{pollID}                  → GetPoll (user_vote when signed in)
	POST /polls/{pollID}/votes            → Vote
	POST /polls/{pollID}/end              → EndPoll (creator only)
	POST /polls/{pollID}/hide             → HidePoll (creator only)

Hidden polls read as 404 and reject votes.

# Meetings

	POST   /groups/{groupID}/meetings          → CreateMeeting (organizer)
	GET    /meetings/{meetingID}               → GetMeeting
	GET    /meetings/{meetingID}/participants  → ListParticipants
	POST   /meetings/{meetingID}/attend        → Attend (group member)
	DELETE /meetings/{meetingID}/attend        → Unattend
	PATCH  /meetings/{meetingID}/capacity      → UpdateCapacity (organizer)

UpdateCapacity hands promoted user IDs to the notifier after the change
commits. A notifier error is logged and counted, never returned.
*/
package handlers
