// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"slices"
	"time"

	"github.com/danielhkuo/gather/apperr"
	"github.com/danielhkuo/gather/logging"
	"github.com/danielhkuo/gather/metrics"
	"github.com/danielhkuo/gather/models"
)

// VoteResult is the poll after a vote together with what the vote did.
type VoteResult struct {
	Poll   *models.Poll
	Action models.VoteAction
}

// VotePoll records userID's choice of optionIndices.
//
// On a single-choice poll a repeat vote replaces the user's previous entry.
// On a multiple-choice poll every call appends a new entry and adds to the
// tallies, even for options the user already picked.
func (e *Engine) VotePoll(ctx context.Context, pollID, userID string, optionIndices []int) (*VoteResult, error) {
	if userID == "" {
		return nil, apperr.Validation("User is required to vote")
	}

	var action models.VoteAction
	poll, err := e.mutate(ctx, pollID, func(p *models.Poll, now time.Time) error {
		a, err := applyVote(p, userID, optionIndices, now)
		if err != nil {
			return err
		}
		action = a
		return nil
	})
	if err != nil {
		if kind := apperr.KindOf(err); kind != "" {
			metrics.VoteRejections.WithLabelValues(string(kind)).Inc()
		}
		return nil, err
	}

	metrics.VotesTotal.WithLabelValues(string(action)).Inc()
	logging.Ctx(ctx).Info().
		Str("poll_id", pollID).
		Str("user_id", userID).
		Str("action", string(action)).
		Ints("options", optionIndices).
		Msg("vote recorded")

	return &VoteResult{Poll: poll, Action: action}, nil
}

// applyVote validates a vote against the poll's current state and applies
// it to the ledger and tallies in memory. On error p is left untouched.
func applyVote(p *models.Poll, userID string, optionIndices []int, now time.Time) (models.VoteAction, error) {
	if p.IsHidden {
		return "", apperr.State("Poll has been deleted")
	}
	if p.IsEnded(now) {
		return "", apperr.State("Poll has ended")
	}

	selected := normalizeIndices(optionIndices)
	if len(selected) == 0 {
		return "", apperr.Validation("At least one option must be selected")
	}
	for _, idx := range selected {
		if idx < 0 || idx >= len(p.Options) {
			return "", apperr.Validation("Invalid option index")
		}
	}
	if !p.Settings.AllowMultipleVotes && len(selected) > 1 {
		return "", apperr.Validation("This poll only allows voting for one option")
	}

	hasVoted := len(p.UserEntries(userID)) > 0

	if hasVoted && !p.Settings.AllowMultipleVotes {
		kept := make([]models.VoteEntry, 0, len(p.Votes))
		for _, v := range p.Votes {
			if v.UserID != userID {
				kept = append(kept, v)
				continue
			}
			for _, idx := range v.OptionIndices {
				if idx >= 0 && idx < len(p.Options) && p.Options[idx].Votes > 0 {
					p.Options[idx].Votes--
				}
			}
		}
		p.Votes = kept
	}

	p.Votes = append(p.Votes, models.VoteEntry{
		UserID:        userID,
		OptionIndices: selected,
		VotedAt:       now,
	})
	for _, idx := range selected {
		p.Options[idx].Votes++
	}

	if hasVoted {
		return models.VoteChanged, nil
	}
	return models.VoteCreated, nil
}

// normalizeIndices returns the distinct indices in ascending order.
func normalizeIndices(indices []int) []int {
	out := slices.Clone(indices)
	slices.Sort(out)
	return slices.Compact(out)
}
