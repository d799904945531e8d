// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package meetings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/gather/apperr"
	"github.com/danielhkuo/gather/logging"
	"github.com/danielhkuo/gather/metrics"
	"github.com/danielhkuo/gather/models"
)

// Attend adds userID to the meeting: attending while seats remain,
// waitlisted after that. Joining twice returns the existing status.
func (e *Engine) Attend(ctx context.Context, meetingID, userID string) (models.ParticipationStatus, error) {
	if userID == "" {
		return "", apperr.Validation("User is required to attend")
	}

	var status models.ParticipationStatus
	var existed bool

	err := e.store.WithTx(ctx, func(tx *sql.Tx) error {
		capacity, err := e.lockMeeting(ctx, tx, meetingID)
		if err != nil {
			return err
		}

		var current string
		err = tx.QueryRowContext(ctx, `
			SELECT status FROM meeting_participant
			WHERE meeting_id = $1 AND user_id = $2
		`, meetingID, userID).Scan(&current)
		if err == nil {
			status = models.ParticipationStatus(current)
			existed = true
			return nil
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to query participation: %w", err)
		}

		attending, err := countAttending(ctx, tx, meetingID)
		if err != nil {
			return err
		}

		status = models.StatusWaitlisted
		if attending < capacity {
			status = models.StatusAttending
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO meeting_participant (meeting_id, user_id, status, indication_time)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (meeting_id, user_id) DO NOTHING
		`, meetingID, userID, string(status), e.now().UTC())
		if err != nil {
			return fmt.Errorf("failed to insert participation: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if !existed {
		metrics.AttendTotal.WithLabelValues(string(status)).Inc()
	}
	logging.Ctx(ctx).Info().
		Str("meeting_id", meetingID).
		Str("user_id", userID).
		Str("status", string(status)).
		Bool("repeat", existed).
		Msg("attendance recorded")

	return status, nil
}

// Unattend removes userID from the meeting. A freed seat stays free until
// capacity is increased; nobody is promoted here.
func (e *Engine) Unattend(ctx context.Context, meetingID, userID string) error {
	err := e.store.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := e.lockMeeting(ctx, tx, meetingID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			DELETE FROM meeting_participant
			WHERE meeting_id = $1 AND user_id = $2
		`, meetingID, userID)
		if err != nil {
			return fmt.Errorf("failed to delete participation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.Ctx(ctx).Info().
		Str("meeting_id", meetingID).
		Str("user_id", userID).
		Msg("attendance withdrawn")
	return nil
}

// IncreaseCapacity stores newCapacity and, when it grew, promotes the
// longest-waiting waitlisted users into the new seats. It returns the
// promoted user IDs in promotion order. Lowering capacity demotes nobody.
func (e *Engine) IncreaseCapacity(ctx context.Context, meetingID string, newCapacity int) ([]string, error) {
	if newCapacity < 1 {
		return nil, apperr.Validation("Capacity must be a positive integer")
	}

	promoted := []string{}
	var oldCapacity int

	err := e.store.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		oldCapacity, err = e.lockMeeting(ctx, tx, meetingID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE meeting SET capacity = $1 WHERE id = $2`,
			newCapacity, meetingID,
		); err != nil {
			return fmt.Errorf("failed to update capacity: %w", err)
		}

		delta := newCapacity - oldCapacity
		if delta <= 0 {
			return nil
		}

		attending, err := countAttending(ctx, tx, meetingID)
		if err != nil {
			return err
		}
		slots := min(delta, newCapacity-attending)
		if slots <= 0 {
			return nil
		}

		promoted, err = promote(ctx, tx, meetingID, slots)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.Promotions.Add(float64(len(promoted)))
	logging.Ctx(ctx).Info().
		Str("meeting_id", meetingID).
		Int("old_capacity", oldCapacity).
		Int("new_capacity", newCapacity).
		Strs("promoted", promoted).
		Msg("capacity updated")

	return promoted, nil
}

// promote moves the first n waitlisted users, by indication time, to
// attending.
func promote(ctx context.Context, tx *sql.Tx, meetingID string, n int) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT user_id FROM meeting_participant
		WHERE meeting_id = $1 AND status = $2
		ORDER BY indication_time ASC, user_id ASC
		LIMIT $3
	`, meetingID, string(models.StatusWaitlisted), n)
	if err != nil {
		return nil, fmt.Errorf("failed to query waitlist: %w", err)
	}

	userIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan waitlisted user: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating waitlist: %w", err)
	}

	for _, id := range userIDs {
		_, err := tx.ExecContext(ctx, `
			UPDATE meeting_participant SET status = $1
			WHERE meeting_id = $2 AND user_id = $3
		`, string(models.StatusAttending), meetingID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to promote %s: %w", id, err)
		}
	}

	return userIDs, nil
}
