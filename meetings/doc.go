// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package meetings implements capacity-limited attendance with a waitlist.

# Locking

Attend, Unattend and IncreaseCapacity each run in one transaction that
starts by locking the meeting row:

	SELECT capacity FROM meeting WHERE id = $1 FOR UPDATE

Counting attendees and inserting or promoting participants therefore
never interleave for the same meeting.

# Waitlist

Joining a full meeting inserts a waitlisted row stamped with the join
time. IncreaseCapacity promotes waitlisted users oldest first, ties broken
by user ID, into at most min(increase, free seats) seats:

	promoted, err := engine.IncreaseCapacity(ctx, meetingID, 20)

Leaving a meeting frees a seat but promotes nobody, and lowering capacity
demotes nobody.
*/
package meetings
