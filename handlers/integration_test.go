// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"slices"
	"testing"

	"github.com/danielhkuo/gather/models"
	"github.com/danielhkuo/gather/testutil"
)

// TestMeetingWorkflow walks a meeting through its life:
// 1. Organizer creates a meeting with two seats
// 2. Four members join; two end up waitlisted
// 3. An attendee leaves; nobody is promoted
// 4. Organizer raises capacity; the longest-waiting member is promoted
// 5. Participant list reflects the final state
func TestMeetingWorkflow(t *testing.T) {
	env := newTestEnv(t)
	seedGroup(t, env, "m1", "m2", "m3", "m4")

	// Step 1
	w := call(env.meetings.CreateMeeting, "POST", "/groups/g1/meetings",
		models.CreateMeetingRequest{Title: "Hike", Capacity: 2}, "organizer",
		map[string]string{"groupID": "g1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create meeting failed: %d - %s", w.Code, w.Body.String())
	}
	var meeting models.Meeting
	testutil.AssertJSON(t, w, &meeting)
	params := map[string]string{"meetingID": meeting.ID}
	t.Logf("Step 1 - Created meeting: %s", meeting.ID)

	// Step 2
	for _, u := range []string{"m1", "m2", "m3", "m4"} {
		attend(t, env, meeting.ID, u)
	}
	w = call(env.meetings.GetMeeting, "GET", "/meetings/"+meeting.ID, nil, "", params)
	testutil.AssertJSON(t, w, &meeting)
	if meeting.AttendingCount != 2 || meeting.WaitlistCount != 2 {
		t.Fatalf("Step 2 - Expected 2/2, got %d/%d", meeting.AttendingCount, meeting.WaitlistCount)
	}

	// Step 3
	w = call(env.meetings.Unattend, "DELETE", "/meetings/"+meeting.ID+"/attend", nil, "m1", params)
	testutil.AssertStatus(t, w, http.StatusNoContent)
	w = call(env.meetings.GetMeeting, "GET", "/meetings/"+meeting.ID, nil, "", params)
	testutil.AssertJSON(t, w, &meeting)
	if meeting.AttendingCount != 1 || meeting.WaitlistCount != 2 {
		t.Fatalf("Step 3 - Expected 1/2, got %d/%d", meeting.AttendingCount, meeting.WaitlistCount)
	}

	// Step 4: delta is 1 and two seats are free, so one promotion
	w = call(env.meetings.UpdateCapacity, "PATCH", "/meetings/"+meeting.ID+"/capacity",
		models.UpdateCapacityRequest{Capacity: 3}, "organizer", params)
	testutil.AssertStatus(t, w, http.StatusOK)
	var update models.UpdateCapacityResponse
	testutil.AssertJSON(t, w, &update)
	if !slices.Equal(update.Promoted, []string{"m3"}) {
		t.Fatalf("Step 4 - Expected [m3] promoted, got %v", update.Promoted)
	}

	// Step 5
	w = call(env.meetings.ListParticipants, "GET", "/meetings/"+meeting.ID+"/participants", nil, "", params)
	var list models.ParticipantsResponse
	testutil.AssertJSON(t, w, &list)

	var order []string
	for _, p := range list.Participants {
		order = append(order, p.UserID+":"+string(p.Status))
	}
	want := []string{"m2:attending", "m3:attending", "m4:waitlisted"}
	if !slices.Equal(order, want) {
		t.Errorf("Step 5 - Expected %v, got %v", want, order)
	}
}
