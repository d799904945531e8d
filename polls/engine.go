// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/danielhkuo/gather/apperr"
	"github.com/danielhkuo/gather/auth"
	"github.com/danielhkuo/gather/db"
	"github.com/danielhkuo/gather/logging"
	"github.com/danielhkuo/gather/metrics"
	"github.com/danielhkuo/gather/models"
)

// errVersionConflict means another writer committed between our read and
// our write. It never leaves this package.
var errVersionConflict = errors.New("poll version conflict")

const (
	defaultMaxAttempts = 5
	minOptions         = 2
)

// Engine owns every write to a poll document: its options, tallies, vote
// ledger, end date and hidden flag.
type Engine struct {
	store       *db.Store
	maxAttempts int
	now         func() time.Time
}

type Option func(*Engine)

// WithMaxAttempts bounds how many times a conflicting rewrite is retried.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(store *db.Store, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		maxAttempts: defaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type CreatePollInput struct {
	CommunityID        string
	UserID             string
	Content            string
	IsSupportersOnly   bool
	Question           string
	Options            []string
	AllowMultipleVotes bool
	EndDate            *time.Time
}

// CreatePoll stores a new poll post with zeroed tallies and an empty ledger.
func (e *Engine) CreatePoll(ctx context.Context, in CreatePollInput) (*models.Poll, error) {
	if len(in.Options) < minOptions {
		return nil, apperr.Validationf("Poll must have at least %d options", minOptions)
	}
	options := make([]models.PollOption, len(in.Options))
	for i, text := range in.Options {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, apperr.Validation("Poll option text is required")
		}
		options[i] = models.PollOption{Text: text}
	}
	if strings.TrimSpace(in.Question) == "" {
		return nil, apperr.Validation("Poll question is required")
	}
	if in.CommunityID == "" || in.UserID == "" {
		return nil, apperr.Validation("Community and user are required")
	}

	now := e.now().UTC()
	var endDate *time.Time
	if in.EndDate != nil {
		end := in.EndDate.UTC()
		endDate = &end
	}

	poll := &models.Poll{
		ID:               auth.GenerateID(),
		CommunityID:      in.CommunityID,
		CreatorID:        in.UserID,
		Content:          in.Content,
		IsSupportersOnly: in.IsSupportersOnly,
		CreatedAt:        now,
		UpdatedAt:        now,
		PollData: models.PollData{
			Question: strings.TrimSpace(in.Question),
			Options:  options,
			Settings: models.PollSettings{
				AllowMultipleVotes: in.AllowMultipleVotes,
				EndDate:            endDate,
			},
			Votes: []models.VoteEntry{},
		},
	}

	doc, err := json.Marshal(poll.PollData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode poll: %w", err)
	}

	_, err = e.store.DB.ExecContext(ctx, `
		INSERT INTO post (id, community_id, user_id, type, content, is_supporters_only, is_hidden, poll_data, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, poll.ID, poll.CommunityID, poll.CreatorID, models.PostTypePoll, poll.Content,
		poll.IsSupportersOnly, false, string(doc), poll.Version, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert poll: %w", err)
	}

	metrics.PollsCreated.Inc()
	logging.Ctx(ctx).Info().
		Str("poll_id", poll.ID).
		Str("community_id", poll.CommunityID).
		Int("options", len(options)).
		Bool("multiple", in.AllowMultipleVotes).
		Msg("poll created")

	return poll, nil
}

// GetPollDetails returns the poll plus what userID has voted. An empty
// userID is an anonymous reader.
func (e *Engine) GetPollDetails(ctx context.Context, pollID, userID string) (*models.PollDetails, error) {
	poll, err := e.loadPoll(ctx, e.store.DB, pollID, "")
	if err != nil {
		return nil, err
	}

	details := &models.PollDetails{Poll: poll}
	if userID == "" {
		return details, nil
	}

	entries := poll.UserEntries(userID)
	if len(entries) == 0 {
		return details, nil
	}

	var indices []int
	var latest time.Time
	for _, entry := range entries {
		indices = append(indices, entry.OptionIndices...)
		if entry.VotedAt.After(latest) {
			latest = entry.VotedAt
		}
	}

	details.UserHasVoted = true
	details.UserVote = &models.UserVote{
		OptionIndices: normalizeIndices(indices),
		VotedAt:       latest,
		VoteCount:     len(entries),
	}
	return details, nil
}

// EndPoll closes the poll now. Only its creator may end it; ending an
// already ended poll just moves the end date.
func (e *Engine) EndPoll(ctx context.Context, pollID, userID string) (*models.Poll, error) {
	poll, err := e.mutate(ctx, pollID, func(p *models.Poll, now time.Time) error {
		if p.CreatorID != userID {
			return apperr.Authorization("Unauthorized to end this poll")
		}
		end := now
		p.Settings.EndDate = &end
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("poll_id", pollID).Msg("poll ended")
	return poll, nil
}

// HidePoll marks the poll deleted. Hidden polls reject all further votes.
func (e *Engine) HidePoll(ctx context.Context, pollID, userID string) (*models.Poll, error) {
	poll, err := e.mutate(ctx, pollID, func(p *models.Poll, now time.Time) error {
		if p.CreatorID != userID {
			return apperr.Authorization("Unauthorized to delete this poll")
		}
		p.IsHidden = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("poll_id", pollID).Msg("poll hidden")
	return poll, nil
}

// mutate performs one read-modify-write of a poll document in a
// transaction. fn edits the loaded poll in place; an error from fn aborts
// the attempt without writing. The write is a compare-and-swap on version,
// and a lost race restarts the whole attempt.
func (e *Engine) mutate(ctx context.Context, pollID string, fn func(p *models.Poll, now time.Time) error) (*models.Poll, error) {
	for attempt := 1; ; attempt++ {
		var result *models.Poll
		err := e.store.WithTx(ctx, func(tx *sql.Tx) error {
			poll, err := e.loadPoll(ctx, tx, pollID, e.store.ForUpdate())
			if err != nil {
				return err
			}

			now := e.now().UTC()
			if err := fn(poll, now); err != nil {
				return err
			}

			if err := savePoll(ctx, tx, poll, now); err != nil {
				return err
			}
			result = poll
			return nil
		})
		if !errors.Is(err, errVersionConflict) {
			return result, err
		}

		metrics.VoteConflicts.Inc()
		if attempt >= e.maxAttempts {
			logging.Ctx(ctx).Warn().
				Str("poll_id", pollID).
				Int("attempts", attempt).
				Msg("poll rewrite gave up after repeated conflicts")
			return nil, apperr.Conflict("Poll was modified concurrently, please retry")
		}
		if err := backoff(ctx, attempt); err != nil {
			return nil, err
		}
	}
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (e *Engine) loadPoll(ctx context.Context, q querier, pollID, lock string) (*models.Poll, error) {
	var poll models.Poll
	var doc sql.NullString

	err := q.QueryRowContext(ctx, `
		SELECT id, community_id, user_id, content, is_supporters_only, is_hidden,
		       poll_data, version, created_at, updated_at
		FROM post
		WHERE id = $1 AND type = $2`+lock,
		pollID, models.PostTypePoll,
	).Scan(
		&poll.ID, &poll.CommunityID, &poll.CreatorID, &poll.Content,
		&poll.IsSupportersOnly, &poll.IsHidden, &doc, &poll.Version,
		&poll.CreatedAt, &poll.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Poll not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query poll: %w", err)
	}
	if !doc.Valid {
		return nil, fmt.Errorf("poll %s has no poll data", pollID)
	}

	if err := json.Unmarshal([]byte(doc.String), &poll.PollData); err != nil {
		return nil, fmt.Errorf("failed to decode poll %s: %w", pollID, err)
	}
	if poll.Votes == nil {
		poll.Votes = []models.VoteEntry{}
	}
	return &poll, nil
}

func savePoll(ctx context.Context, tx *sql.Tx, poll *models.Poll, now time.Time) error {
	doc, err := json.Marshal(poll.PollData)
	if err != nil {
		return fmt.Errorf("failed to encode poll: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE post
		SET poll_data = $1, is_hidden = $2, version = version + 1, updated_at = $3
		WHERE id = $4 AND version = $5
	`, string(doc), poll.IsHidden, now, poll.ID, poll.Version)
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return errVersionConflict
	}

	poll.Version++
	poll.UpdatedAt = now
	return nil
}

// backoff sleeps a few jittered milliseconds, longer on later attempts.
func backoff(ctx context.Context, attempt int) error {
	d := time.Duration(attempt)*5*time.Millisecond + time.Duration(rand.IntN(5))*time.Millisecond
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
