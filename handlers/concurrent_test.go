// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/gather/models"
	"github.com/danielhkuo/gather/testutil"
)

// TestConcurrentVotes verifies that simultaneous votes from different users
// on the same poll are all counted
func TestConcurrentVotes(t *testing.T) {
	env := newTestEnv(t)
	testutil.AddCommunityMember(t, env.store, "c1", "creator", false)

	numVoters := 12
	for i := 0; i < numVoters; i++ {
		testutil.AddCommunityMember(t, env.store, "c1", fmt.Sprintf("voter-%d", i), false)
	}

	poll := createPoll(t, env, models.CreatePollRequest{
		Question: "Pick one",
		Options:  []string{"A", "B", "C"},
	})
	params := map[string]string{"pollID": poll.ID}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			w := call(env.polls.Vote, "POST", "/polls/"+poll.ID+"/votes",
				models.VoteRequest{OptionIndices: []int{voterIdx % 3}},
				fmt.Sprintf("voter-%d", voterIdx), params)

			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	w := call(env.polls.GetPoll, "GET", "/polls/"+poll.ID, nil, "", params)
	var details models.PollDetailsResponse
	testutil.AssertJSON(t, w, &details)

	for i, opt := range details.Poll.Options {
		if opt.Votes != numVoters/3 {
			t.Errorf("Option %d: expected %d votes, got %d", i, numVoters/3, opt.Votes)
		}
	}
	if details.Poll.TotalVotes != numVoters {
		t.Errorf("Expected %d total votes, got %d", numVoters, details.Poll.TotalVotes)
	}
}

// TestConcurrentAttend verifies that a meeting never admits more attendees
// than its capacity when many users join at once
func TestConcurrentAttend(t *testing.T) {
	env := newTestEnv(t)

	numUsers := 15
	capacity := 4
	for i := 0; i < numUsers; i++ {
		testutil.AddGroupMember(t, env.store, "g1", fmt.Sprintf("user-%d", i), models.RoleMember)
	}
	meetingID := testutil.CreateTestMeeting(t, env.store, "g1", capacity)
	params := map[string]string{"meetingID": meetingID}

	var attending, waitlisted atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numUsers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			w := call(env.meetings.Attend, "POST", "/meetings/"+meetingID+"/attend", nil,
				fmt.Sprintf("user-%d", idx), params)
			if w.Code != http.StatusOK {
				t.Errorf("user-%d: status %d: %s", idx, w.Code, w.Body.String())
				return
			}

			var resp models.AttendResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Errorf("user-%d: %v", idx, err)
				return
			}
			switch resp.Status {
			case models.StatusAttending:
				attending.Add(1)
			case models.StatusWaitlisted:
				waitlisted.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(attending.Load()) != capacity {
		t.Errorf("Expected %d attending, got %d", capacity, attending.Load())
	}
	if int(waitlisted.Load()) != numUsers-capacity {
		t.Errorf("Expected %d waitlisted, got %d", numUsers-capacity, waitlisted.Load())
	}
}
