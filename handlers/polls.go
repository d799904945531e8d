// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/gather/access"
	"github.com/danielhkuo/gather/apperr"
	"github.com/danielhkuo/gather/middleware"
	"github.com/danielhkuo/gather/models"
	"github.com/danielhkuo/gather/polls"
)

type PollHandler struct {
	engine *polls.Engine
	policy access.Policy
	now    func() time.Time
}

func NewPollHandler(engine *polls.Engine, policy access.Policy) *PollHandler {
	return &PollHandler{engine: engine, policy: policy, now: time.Now}
}

// CreatePoll handles POST /communities/{communityID}/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	communityID := r.PathValue("communityID")
	userID := middleware.UserID(r.Context())

	if err := h.policy.CanCreatePoll(r.Context(), communityID, userID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	var req models.CreatePollRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	poll, err := h.engine.CreatePoll(r.Context(), polls.CreatePollInput{
		CommunityID:        communityID,
		UserID:             userID,
		Content:            req.Content,
		IsSupportersOnly:   req.IsSupportersOnly,
		Question:           req.Question,
		Options:            req.Options,
		AllowMultipleVotes: req.AllowMultipleVotes,
		EndDate:            req.EndDate,
	})
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, poll.View(h.now()))
}

// GetPoll handles GET /polls/{pollID}. Anonymous callers get the poll
// without a user_vote.
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("pollID")

	details, err := h.engine.GetPollDetails(r.Context(), pollID, middleware.UserID(r.Context()))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if details.Poll.IsHidden {
		middleware.WriteError(w, r, apperr.NotFound("Poll not found"))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollDetailsResponse{
		Poll:         details.Poll.View(h.now()),
		UserHasVoted: details.UserHasVoted,
		UserVote:     details.UserVote,
	})
}

// Vote handles POST /polls/{pollID}/votes
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("pollID")
	userID := middleware.UserID(r.Context())

	if err := h.policy.CanVote(r.Context(), pollID, userID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	var req models.VoteRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	result, err := h.engine.VotePoll(r.Context(), pollID, userID, req.OptionIndices)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Poll:       result.Poll.View(h.now()),
		VoteAction: result.Action,
	})
}

// EndPoll handles POST /polls/{pollID}/end. The engine checks that the
// caller created the poll.
func (h *PollHandler) EndPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.engine.EndPoll(r.Context(), r.PathValue("pollID"), middleware.UserID(r.Context()))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll.View(h.now()))
}

// HidePoll handles POST /polls/{pollID}/hide
func (h *PollHandler) HidePoll(w http.ResponseWriter, r *http.Request) {
	if _, err := h.engine.HidePoll(r.Context(), r.PathValue("pollID"), middleware.UserID(r.Context())); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
