// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/gather/auth"
	"github.com/danielhkuo/gather/cliparse"
	"github.com/danielhkuo/gather/db"
	"github.com/danielhkuo/gather/models"
)

// TestJWTSecret signs tokens in tests
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh SQLite database with the full schema.
// Each test gets its own file, removed with the test's temp dir.
func SetupTestDB(t *testing.T) *db.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gather.db")
	store, err := db.Open(db.SQLite, "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := db.CreateSchema(store); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     "file::memory:",
		DatabaseType:    "sqlite",
		JWTSecret:       TestJWTSecret,
		LogLevel:        "disabled",
		VoteMaxAttempts: 5,
		RateLimit:       10000,
		KafkaTopic:      "meeting-promotions",
		CORSOrigins:     []string{"*"},
	}
}

// AddCommunityMember adds userID to a community
func AddCommunityMember(t *testing.T, store *db.Store, communityID, userID string, supporter bool) {
	t.Helper()

	_, err := store.DB.Exec(`
		INSERT INTO community_member (community_id, user_id, is_supporter, joined_at)
		VALUES ($1, $2, $3, $4)
	`, communityID, userID, supporter, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to add community member: %v", err)
	}
}

// AddGroupMember adds userID to a group with the given role
func AddGroupMember(t *testing.T, store *db.Store, groupID, userID, role string) {
	t.Helper()

	_, err := store.DB.Exec(`
		INSERT INTO group_member (group_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
	`, groupID, userID, role, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to add group member: %v", err)
	}
}

// CreateTestMeeting inserts a meeting and returns its ID
func CreateTestMeeting(t *testing.T, store *db.Store, groupID string, capacity int) string {
	t.Helper()

	meetingID := auth.GenerateID()
	_, err := store.DB.Exec(`
		INSERT INTO meeting (id, group_id, title, capacity, created_by, created_at)
		VALUES ($1, $2, 'Test Meeting', $3, 'organizer', $4)
	`, meetingID, groupID, capacity, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test meeting: %v", err)
	}

	return meetingID
}

// AddTestParticipant inserts a participation row directly, bypassing the
// capacity engine, so tests can build exact waitlist orderings.
func AddTestParticipant(t *testing.T, store *db.Store, meetingID, userID string, status models.ParticipationStatus, at time.Time) {
	t.Helper()

	_, err := store.DB.Exec(`
		INSERT INTO meeting_participant (meeting_id, user_id, status, indication_time)
		VALUES ($1, $2, $3, $4)
	`, meetingID, userID, string(status), at.UTC())
	if err != nil {
		t.Fatalf("Failed to add participant: %v", err)
	}
}

// CountParticipants counts rows with the given status for a meeting
func CountParticipants(t *testing.T, store *db.Store, meetingID string, status models.ParticipationStatus) int {
	t.Helper()

	var n int
	err := store.DB.QueryRow(`
		SELECT COUNT(*) FROM meeting_participant WHERE meeting_id = $1 AND status = $2
	`, meetingID, string(status)).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count participants: %v", err)
	}
	return n
}

// BearerToken issues an access token header value for userID
func BearerToken(t *testing.T, userID string) string {
	t.Helper()

	token, err := auth.IssueToken(userID, TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return "Bearer " + token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
