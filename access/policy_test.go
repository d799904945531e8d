// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package access

import (
	"context"
	"testing"

	"github.com/danielhkuo/gather/apperr"
	"github.com/danielhkuo/gather/models"
	"github.com/danielhkuo/gather/polls"
	"github.com/danielhkuo/gather/testutil"
)

func TestSQLPolicy_Polls(t *testing.T) {
	store := testutil.SetupTestDB(t)
	policy := NewSQLPolicy(store)
	engine := polls.NewEngine(store)
	ctx := context.Background()

	testutil.AddCommunityMember(t, store, "c1", "member", false)
	testutil.AddCommunityMember(t, store, "c1", "supporter", true)
	testutil.AddCommunityMember(t, store, "c2", "outsider", true)

	open, err := engine.CreatePoll(ctx, polls.CreatePollInput{
		CommunityID: "c1", UserID: "member", Question: "Q", Options: []string{"a", "b"},
	})
	if err != nil {
		t.Fatal(err)
	}
	restricted, err := engine.CreatePoll(ctx, polls.CreatePollInput{
		CommunityID: "c1", UserID: "member", Question: "Q", Options: []string{"a", "b"},
		IsSupportersOnly: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		check   func() error
		allowed bool
	}{
		{"member creates poll", func() error { return policy.CanCreatePoll(ctx, "c1", "member") }, true},
		{"outsider creates poll", func() error { return policy.CanCreatePoll(ctx, "c1", "outsider") }, false},
		{"member votes on open poll", func() error { return policy.CanVote(ctx, open.ID, "member") }, true},
		{"outsider votes on open poll", func() error { return policy.CanVote(ctx, open.ID, "outsider") }, false},
		{"member votes on supporters poll", func() error { return policy.CanVote(ctx, restricted.ID, "member") }, false},
		{"supporter votes on supporters poll", func() error { return policy.CanVote(ctx, restricted.ID, "supporter") }, true},
		{"supporter of other community", func() error { return policy.CanVote(ctx, restricted.ID, "outsider") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.allowed && err != nil {
				t.Errorf("expected allowed, got %v", err)
			}
			if !tt.allowed && !apperr.IsKind(err, apperr.KindAuthorization) {
				t.Errorf("expected authorization error, got %v", err)
			}
		})
	}

	if err := policy.CanVote(ctx, "missing", "member"); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found for missing poll, got %v", err)
	}
}

func TestSQLPolicy_Meetings(t *testing.T) {
	store := testutil.SetupTestDB(t)
	policy := NewSQLPolicy(store)
	ctx := context.Background()

	testutil.AddGroupMember(t, store, "g1", "member", models.RoleMember)
	testutil.AddGroupMember(t, store, "g1", "organizer", models.RoleOrganizer)
	testutil.AddGroupMember(t, store, "g2", "other-organizer", models.RoleOrganizer)
	meetingID := testutil.CreateTestMeeting(t, store, "g1", 5)

	tests := []struct {
		name    string
		check   func() error
		allowed bool
	}{
		{"member attends", func() error { return policy.CanAttend(ctx, meetingID, "member") }, true},
		{"organizer attends", func() error { return policy.CanAttend(ctx, meetingID, "organizer") }, true},
		{"stranger attends", func() error { return policy.CanAttend(ctx, meetingID, "stranger") }, false},
		{"organizer manages", func() error { return policy.CanManageMeeting(ctx, meetingID, "organizer") }, true},
		{"member manages", func() error { return policy.CanManageMeeting(ctx, meetingID, "member") }, false},
		{"organizer of other group manages", func() error { return policy.CanManageMeeting(ctx, meetingID, "other-organizer") }, false},
		{"organizer creates", func() error { return policy.CanCreateMeeting(ctx, "g1", "organizer") }, true},
		{"member creates", func() error { return policy.CanCreateMeeting(ctx, "g1", "member") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.allowed && err != nil {
				t.Errorf("expected allowed, got %v", err)
			}
			if !tt.allowed && !apperr.IsKind(err, apperr.KindAuthorization) {
				t.Errorf("expected authorization error, got %v", err)
			}
		})
	}

	if err := policy.CanAttend(ctx, "missing", "member"); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found for missing meeting, got %v", err)
	}
}
