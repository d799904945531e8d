// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: content, question, options, allow_multiple_votes, end_date
  - VoteRequest: option_indices
  - CreateMeetingRequest: title, capacity, starts_at
  - UpdateCapacityRequest: capacity

# Response Types

  - PollView: public poll shape (tallies, never the ledger)
  - VoteResponse: poll, vote_action
  - PollDetailsResponse: poll, user_has_voted, user_vote
  - AttendResponse: meeting_id, status
  - UpdateCapacityResponse: meeting_id, capacity, promoted
  - ParticipantsResponse: meeting_id, participants
  - ErrorResponse: error, message

# Domain Types

  - Poll: a post of type "poll" plus its PollData document
  - PollData: question, options, settings, votes (persisted as one JSON value)
  - PollOption: option text and its tally
  - PollSettings: allow_multiple_votes, end_date
  - VoteEntry: one ledger record
  - Meeting, Participant: capacity-limited meetings and their attendees

# Constants

Vote actions:

	VoteCreated = "created"
	VoteChanged = "changed"

Participation status:

	StatusAttending  = "attending"
	StatusWaitlisted = "waitlisted"

Group roles:

	RoleMember    = "member"
	RoleOrganizer = "organizer"
*/
package models
