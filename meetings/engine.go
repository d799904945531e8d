// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package meetings

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/gather/apperr"
	"github.com/danielhkuo/gather/auth"
	"github.com/danielhkuo/gather/db"
	"github.com/danielhkuo/gather/logging"
	"github.com/danielhkuo/gather/models"
)

// Engine owns the participation set of every meeting. Each operation that
// reads or writes participation rows first locks the meeting row.
type Engine struct {
	store *db.Store
	now   func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(store *db.Store, opts ...Option) *Engine {
	e := &Engine{store: store, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type CreateMeetingInput struct {
	GroupID   string
	Title     string
	Capacity  int
	StartsAt  *time.Time
	CreatedBy string
}

// CreateMeeting stores a meeting with no participants.
func (e *Engine) CreateMeeting(ctx context.Context, in CreateMeetingInput) (*models.Meeting, error) {
	if in.Capacity < 1 {
		return nil, apperr.Validation("Capacity must be a positive integer")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("Meeting title is required")
	}
	if in.GroupID == "" || in.CreatedBy == "" {
		return nil, apperr.Validation("Group and user are required")
	}

	now := e.now().UTC()
	meeting := &models.Meeting{
		ID:        auth.GenerateID(),
		GroupID:   in.GroupID,
		Title:     title,
		Capacity:  in.Capacity,
		CreatedBy: in.CreatedBy,
		CreatedAt: now,
	}
	if in.StartsAt != nil {
		starts := in.StartsAt.UTC()
		meeting.StartsAt = &starts
	}

	_, err := e.store.DB.ExecContext(ctx, `
		INSERT INTO meeting (id, group_id, title, capacity, starts_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, meeting.ID, meeting.GroupID, meeting.Title, meeting.Capacity, meeting.StartsAt, meeting.CreatedBy, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert meeting: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("meeting_id", meeting.ID).
		Str("group_id", meeting.GroupID).
		Int("capacity", meeting.Capacity).
		Msg("meeting created")

	return meeting, nil
}

// GetMeeting returns the meeting with its current attending and waitlist
// counts.
func (e *Engine) GetMeeting(ctx context.Context, meetingID string) (*models.Meeting, error) {
	var m models.Meeting
	var startsAt sql.NullTime

	err := e.store.DB.QueryRowContext(ctx, `
		SELECT id, group_id, title, capacity, starts_at, created_by, created_at
		FROM meeting
		WHERE id = $1
	`, meetingID).Scan(&m.ID, &m.GroupID, &m.Title, &m.Capacity, &startsAt, &m.CreatedBy, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Meeting not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query meeting: %w", err)
	}
	if startsAt.Valid {
		m.StartsAt = &startsAt.Time
	}

	rows, err := e.store.DB.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM meeting_participant
		WHERE meeting_id = $1
		GROUP BY status
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan participant count: %w", err)
		}
		switch models.ParticipationStatus(status) {
		case models.StatusAttending:
			m.AttendingCount = n
		case models.StatusWaitlisted:
			m.WaitlistCount = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant counts: %w", err)
	}

	return &m, nil
}

// ListParticipants returns attendees first, then the waitlist in the order
// it would be promoted.
func (e *Engine) ListParticipants(ctx context.Context, meetingID string) ([]models.Participant, error) {
	var exists int
	err := e.store.DB.QueryRowContext(ctx, `SELECT 1 FROM meeting WHERE id = $1`, meetingID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Meeting not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query meeting: %w", err)
	}

	rows, err := e.store.DB.QueryContext(ctx, `
		SELECT meeting_id, user_id, status, indication_time
		FROM meeting_participant
		WHERE meeting_id = $1
		ORDER BY CASE status WHEN 'attending' THEN 0 ELSE 1 END, indication_time ASC, user_id ASC
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		var status string
		if err := rows.Scan(&p.MeetingID, &p.UserID, &status, &p.IndicationTime); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.Status = models.ParticipationStatus(status)
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}

	return participants, nil
}

// lockMeeting reads the meeting's capacity with the row locked for the
// rest of tx.
func (e *Engine) lockMeeting(ctx context.Context, tx *sql.Tx, meetingID string) (int, error) {
	var capacity int
	err := tx.QueryRowContext(ctx,
		`SELECT capacity FROM meeting WHERE id = $1`+e.store.ForUpdate(),
		meetingID,
	).Scan(&capacity)
	if err == sql.ErrNoRows {
		return 0, apperr.NotFound("Meeting not found")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock meeting: %w", err)
	}
	return capacity, nil
}

func countAttending(ctx context.Context, tx *sql.Tx, meetingID string) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM meeting_participant
		WHERE meeting_id = $1 AND status = $2
	`, meetingID, string(models.StatusAttending)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count attendees: %w", err)
	}
	return n, nil
}
