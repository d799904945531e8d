// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/gather/access"
	"github.com/danielhkuo/gather/logging"
	"github.com/danielhkuo/gather/meetings"
	"github.com/danielhkuo/gather/metrics"
	"github.com/danielhkuo/gather/middleware"
	"github.com/danielhkuo/gather/models"
	"github.com/danielhkuo/gather/notify"
)

type MeetingHandler struct {
	engine   *meetings.Engine
	policy   access.Policy
	notifier notify.Notifier
}

func NewMeetingHandler(engine *meetings.Engine, policy access.Policy, notifier notify.Notifier) *MeetingHandler {
	return &MeetingHandler{engine: engine, policy: policy, notifier: notifier}
}

// CreateMeeting handles POST /groups/{groupID}/meetings
func (h *MeetingHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("groupID")
	userID := middleware.UserID(r.Context())

	if err := h.policy.CanCreateMeeting(r.Context(), groupID, userID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	var req models.CreateMeetingRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	meeting, err := h.engine.CreateMeeting(r.Context(), meetings.CreateMeetingInput{
		GroupID:   groupID,
		Title:     req.Title,
		Capacity:  req.Capacity,
		StartsAt:  req.StartsAt,
		CreatedBy: userID,
	})
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, meeting)
}

// GetMeeting handles GET /meetings/{meetingID}
func (h *MeetingHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	meeting, err := h.engine.GetMeeting(r.Context(), r.PathValue("meetingID"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, meeting)
}

// ListParticipants handles GET /meetings/{meetingID}/participants
func (h *MeetingHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	meetingID := r.PathValue("meetingID")

	participants, err := h.engine.ListParticipants(r.Context(), meetingID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ParticipantsResponse{
		MeetingID:    meetingID,
		Participants: participants,
	})
}

// Attend handles POST /meetings/{meetingID}/attend
func (h *MeetingHandler) Attend(w http.ResponseWriter, r *http.Request) {
	meetingID := r.PathValue("meetingID")
	userID := middleware.UserID(r.Context())

	if err := h.policy.CanAttend(r.Context(), meetingID, userID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	status, err := h.engine.Attend(r.Context(), meetingID, userID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AttendResponse{
		MeetingID: meetingID,
		Status:    status,
	})
}

// Unattend handles DELETE /meetings/{meetingID}/attend
func (h *MeetingHandler) Unattend(w http.ResponseWriter, r *http.Request) {
	err := h.engine.Unattend(r.Context(), r.PathValue("meetingID"), middleware.UserID(r.Context()))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateCapacity handles PATCH /meetings/{meetingID}/capacity. Promoted
// users are notified after the change commits; a failed notification is
// logged and does not fail the request.
func (h *MeetingHandler) UpdateCapacity(w http.ResponseWriter, r *http.Request) {
	meetingID := r.PathValue("meetingID")
	userID := middleware.UserID(r.Context())

	if err := h.policy.CanManageMeeting(r.Context(), meetingID, userID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	var req models.UpdateCapacityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	promoted, err := h.engine.IncreaseCapacity(r.Context(), meetingID, req.Capacity)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	if len(promoted) > 0 {
		if err := h.notifier.NotifyPromoted(r.Context(), meetingID, promoted); err != nil {
			metrics.NotificationFailures.Inc()
			logging.Ctx(r.Context()).Warn().
				Err(err).
				Str("meeting_id", meetingID).
				Strs("promoted", promoted).
				Msg("failed to notify promoted users")
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.UpdateCapacityResponse{
		MeetingID: meetingID,
		Capacity:  req.Capacity,
		Promoted:  promoted,
	})
}
