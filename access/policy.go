// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package access

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/gather/apperr"
	"github.com/danielhkuo/gather/db"
	"github.com/danielhkuo/gather/models"
)

// Policy answers whether a user may perform an action. A nil error means
// allowed; a denial is an apperr.Authorization error.
type Policy interface {
	CanCreatePoll(ctx context.Context, communityID, userID string) error
	CanVote(ctx context.Context, pollID, userID string) error
	CanAttend(ctx context.Context, meetingID, userID string) error
	CanManageMeeting(ctx context.Context, meetingID, userID string) error
	CanCreateMeeting(ctx context.Context, groupID, userID string) error
}

// SQLPolicy checks membership rows in the community_member and
// group_member tables.
type SQLPolicy struct {
	store *db.Store
}

func NewSQLPolicy(store *db.Store) *SQLPolicy {
	return &SQLPolicy{store: store}
}

var _ Policy = (*SQLPolicy)(nil)

func (p *SQLPolicy) CanCreatePoll(ctx context.Context, communityID, userID string) error {
	_, member, err := p.communityMember(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if !member {
		return apperr.Authorization("You must be a member of this community to post")
	}
	return nil
}

// CanVote requires community membership, and supporter status when the
// poll is supporters-only.
func (p *SQLPolicy) CanVote(ctx context.Context, pollID, userID string) error {
	var communityID string
	var supportersOnly bool
	err := p.store.DB.QueryRowContext(ctx, `
		SELECT community_id, is_supporters_only FROM post
		WHERE id = $1 AND type = $2
	`, pollID, models.PostTypePoll).Scan(&communityID, &supportersOnly)
	if err == sql.ErrNoRows {
		return apperr.NotFound("Poll not found")
	}
	if err != nil {
		return fmt.Errorf("failed to query poll: %w", err)
	}

	supporter, member, err := p.communityMember(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if !member {
		return apperr.Authorization("You must be a member of this community to vote")
	}
	if supportersOnly && !supporter {
		return apperr.Authorization("This poll is only open to supporters")
	}
	return nil
}

func (p *SQLPolicy) CanAttend(ctx context.Context, meetingID, userID string) error {
	groupID, err := p.meetingGroup(ctx, meetingID)
	if err != nil {
		return err
	}
	role, err := p.groupRole(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if role == "" {
		return apperr.Authorization("You must be a member of this group to attend")
	}
	return nil
}

func (p *SQLPolicy) CanManageMeeting(ctx context.Context, meetingID, userID string) error {
	groupID, err := p.meetingGroup(ctx, meetingID)
	if err != nil {
		return err
	}
	return p.CanCreateMeeting(ctx, groupID, userID)
}

func (p *SQLPolicy) CanCreateMeeting(ctx context.Context, groupID, userID string) error {
	role, err := p.groupRole(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if role != models.RoleOrganizer {
		return apperr.Authorization("Only group organizers can manage meetings")
	}
	return nil
}

func (p *SQLPolicy) communityMember(ctx context.Context, communityID, userID string) (supporter, member bool, err error) {
	err = p.store.DB.QueryRowContext(ctx, `
		SELECT is_supporter FROM community_member
		WHERE community_id = $1 AND user_id = $2
	`, communityID, userID).Scan(&supporter)
	if err == sql.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to query community membership: %w", err)
	}
	return supporter, true, nil
}

// groupRole returns "" when userID is not in the group.
func (p *SQLPolicy) groupRole(ctx context.Context, groupID, userID string) (string, error) {
	var role string
	err := p.store.DB.QueryRowContext(ctx, `
		SELECT role FROM group_member
		WHERE group_id = $1 AND user_id = $2
	`, groupID, userID).Scan(&role)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query group membership: %w", err)
	}
	return role, nil
}

func (p *SQLPolicy) meetingGroup(ctx context.Context, meetingID string) (string, error) {
	var groupID string
	err := p.store.DB.QueryRowContext(ctx,
		`SELECT group_id FROM meeting WHERE id = $1`, meetingID,
	).Scan(&groupID)
	if err == sql.ErrNoRows {
		return "", apperr.NotFound("Meeting not found")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query meeting: %w", err)
	}
	return groupID, nil
}
