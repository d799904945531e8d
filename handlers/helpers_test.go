// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/danielhkuo/gather/access"
	"github.com/danielhkuo/gather/db"
	"github.com/danielhkuo/gather/meetings"
	"github.com/danielhkuo/gather/middleware"
	"github.com/danielhkuo/gather/polls"
	"github.com/danielhkuo/gather/testutil"
)

type promotion struct {
	meetingID string
	userIDs   []string
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []promotion
	fail  bool
}

func (n *recordingNotifier) NotifyPromoted(ctx context.Context, meetingID string, userIDs []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, promotion{meetingID: meetingID, userIDs: slices.Clone(userIDs)})
	if n.fail {
		return errors.New("broker unavailable")
	}
	return nil
}

func (n *recordingNotifier) Close() error { return nil }

type testEnv struct {
	store    *db.Store
	polls    *PollHandler
	meetings *MeetingHandler
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := testutil.SetupTestDB(t)
	policy := access.NewSQLPolicy(store)
	notifier := &recordingNotifier{}

	return &testEnv{
		store:    store,
		polls:    NewPollHandler(polls.NewEngine(store), policy),
		meetings: NewMeetingHandler(meetings.NewEngine(store), policy, notifier),
		notifier: notifier,
	}
}

// call invokes h directly as userID ("" for anonymous) with the given
// path parameters.
func call(h http.HandlerFunc, method, path string, body interface{}, userID string, params map[string]string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest(method, path, body, nil)
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	for k, v := range params {
		req.SetPathValue(k, v)
	}

	w := httptest.NewRecorder()
	h(w, req)
	return w
}
