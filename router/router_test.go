// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/gather/models"
	"github.com/danielhkuo/gather/notify"
	"github.com/danielhkuo/gather/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := NewRouter(store, testutil.GetTestConfig(), notify.LogNotifier{})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
}

func TestRootEndpoint(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := NewRouter(store, testutil.GetTestConfig(), notify.LogNotifier{})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if expected := "gather API v1"; w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := NewRouter(store, testutil.GetTestConfig(), notify.LogNotifier{})

	// One request so the API counters have a sample
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "gather_api_requests_total") {
		t.Error("Expected gather_api_requests_total in metrics output")
	}
}

func TestRouteExistence(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := NewRouter(store, testutil.GetTestConfig(), notify.LogNotifier{})
	auth := map[string]string{"Authorization": testutil.BearerToken(t, "someone")}

	// 400, 403, 404 are all valid responses depending on handler logic
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/metrics"},
		{"GET", "/"},
		{"POST", "/communities/c1/polls"},
		{"GET", "/polls/test-id"},
		{"POST", "/polls/test-id/votes"},
		{"POST", "/polls/test-id/end"},
		{"POST", "/polls/test-id/hide"},
		{"POST", "/groups/g1/meetings"},
		{"GET", "/meetings/test-id"},
		{"GET", "/meetings/test-id/participants"},
		{"POST", "/meetings/test-id/attend"},
		{"DELETE", "/meetings/test-id/attend"},
		{"PATCH", "/meetings/test-id/capacity"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := testutil.MakeRequest(tc.method, tc.path, nil, auth)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
			if w.Code == http.StatusUnauthorized {
				t.Errorf("Route %s %s rejected a valid token", tc.method, tc.path)
			}
		})
	}
}

func TestSpecificMethodRouting(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := NewRouter(store, testutil.GetTestConfig(), notify.LogNotifier{})

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"POST to health endpoint", "POST", "/health", http.StatusMethodNotAllowed},
		{"PUT to capacity endpoint", "PUT", "/meetings/test-id/capacity", http.StatusMethodNotAllowed},
		{"DELETE a poll", "DELETE", "/polls/test-id", http.StatusMethodNotAllowed},
		{"unknown path", "GET", "/nothing/here", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected %d for %s %s, got %d", tc.expectedStatus, tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestWritesRequireAuthentication(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := NewRouter(store, testutil.GetTestConfig(), notify.LogNotifier{})

	testCases := []struct {
		name    string
		headers map[string]string
	}{
		{"no token", nil},
		{"malformed token", map[string]string{"Authorization": "Bearer nope"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/polls/p1/votes", models.VoteRequest{OptionIndices: []int{0}}, tc.headers)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}
}

// TestPollFlow goes through the full middleware stack, which also checks
// that chi path parameters reach the handlers.
func TestPollFlow(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := NewRouter(store, testutil.GetTestConfig(), notify.LogNotifier{})

	testutil.AddCommunityMember(t, store, "c1", "creator", false)
	testutil.AddCommunityMember(t, store, "c1", "voter", false)
	creator := map[string]string{"Authorization": testutil.BearerToken(t, "creator")}
	voter := map[string]string{"Authorization": testutil.BearerToken(t, "voter")}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/communities/c1/polls", models.CreatePollRequest{
		Question:           "Snacks?",
		Options:            []string{"Chips", "Fruit", "Cookies"},
		AllowMultipleVotes: true,
	}, creator))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var poll models.PollView
	testutil.AssertJSON(t, w, &poll)
	if poll.CommunityID != "c1" {
		t.Fatalf("Expected community c1 from the path, got %q", poll.CommunityID)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls/"+poll.ID+"/votes",
		models.VoteRequest{OptionIndices: []int{0, 2}}, voter))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/"+poll.ID, nil, voter))
	testutil.AssertStatus(t, w, http.StatusOK)

	var details models.PollDetailsResponse
	testutil.AssertJSON(t, w, &details)
	if !details.UserHasVoted || details.Poll.TotalVotes != 2 {
		t.Errorf("Unexpected details %+v", details)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls/"+poll.ID+"/end", nil, voter))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls/"+poll.ID+"/end", nil, creator))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls/"+poll.ID+"/votes",
		models.VoteRequest{OptionIndices: []int{1}}, voter))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestPathParamsReachHandlers(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := NewRouter(store, testutil.GetTestConfig(), notify.LogNotifier{})

	meetingID := testutil.CreateTestMeeting(t, store, "g1", 3)
	testutil.AddTestParticipant(t, store, meetingID, "alice", models.StatusAttending, time.Now())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/meetings/"+meetingID, nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var meeting models.Meeting
	testutil.AssertJSON(t, w, &meeting)
	if meeting.ID != meetingID || meeting.AttendingCount != 1 {
		t.Errorf("Unexpected meeting %+v", meeting)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/meetings/"+meetingID+"/participants", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var list models.ParticipantsResponse
	testutil.AssertJSON(t, w, &list)
	if list.MeetingID != meetingID || len(list.Participants) != 1 || list.Participants[0].UserID != "alice" {
		t.Errorf("Unexpected participants %+v", list)
	}
}

func TestCORSPreflight(t *testing.T) {
	store := testutil.SetupTestDB(t)
	mux := NewRouter(store, testutil.GetTestConfig(), notify.LogNotifier{})

	req := httptest.NewRequest("OPTIONS", "/polls/p1/votes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Errorf("Expected CORS allow-origin header, got headers %v", w.Header())
	}
	if w.Code >= 400 {
		t.Errorf("Expected successful preflight, got %d", w.Code)
	}
}

func TestWriteRateLimit(t *testing.T) {
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.RateLimit = 2
	mux := NewRouter(store, cfg, notify.LogNotifier{})

	headers := map[string]string{"Authorization": testutil.BearerToken(t, "spammer")}

	var codes []int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls/p1/end", nil, headers))
		codes = append(codes, w.Code)
	}

	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected third write to be limited, got %v", codes)
	}

	// Another user has their own budget
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls/p1/end", nil,
		map[string]string{"Authorization": testutil.BearerToken(t, "someone-else")}))
	if w.Code == http.StatusTooManyRequests {
		t.Error("Rate limit should be per user")
	}
}
