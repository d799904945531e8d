// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Post type constants
const (
	PostTypePoll = "poll"
)

// VoteAction reports whether a vote call created the user's first ledger
// entry or changed an existing one.
type VoteAction string

const (
	VoteCreated VoteAction = "created"
	VoteChanged VoteAction = "changed"
)

// ParticipationStatus is the state of a user's meeting participation row.
type ParticipationStatus string

const (
	StatusAttending  ParticipationStatus = "attending"
	StatusWaitlisted ParticipationStatus = "waitlisted"
)

// Group member roles
const (
	RoleMember    = "member"
	RoleOrganizer = "organizer"
)

// Request types

type CreatePollRequest struct {
	Content            string     `json:"content" validate:"max=5000"`
	Question           string     `json:"question" validate:"required,max=500"`
	Options            []string   `json:"options" validate:"max=20,dive,max=200"`
	AllowMultipleVotes bool       `json:"allow_multiple_votes"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	IsSupportersOnly   bool       `json:"is_supporters_only"`
}

type VoteRequest struct {
	OptionIndices []int `json:"option_indices" validate:"max=20"`
}

type CreateMeetingRequest struct {
	Title    string     `json:"title" validate:"required,max=200"`
	Capacity int        `json:"capacity"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
}

type UpdateCapacityRequest struct {
	Capacity int `json:"capacity"`
}

// Response types

// PollView is the public shape of a poll. The vote ledger is never exposed.
type PollView struct {
	ID               string       `json:"id"`
	CommunityID      string       `json:"community_id"`
	CreatorID        string       `json:"creator_id"`
	Content          string       `json:"content"`
	IsSupportersOnly bool         `json:"is_supporters_only"`
	Question         string       `json:"question"`
	Options          []PollOption `json:"options"`
	Settings         PollSettings `json:"settings"`
	TotalVotes       int          `json:"total_votes"`
	IsEnded          bool         `json:"is_ended"`
	CreatedAt        time.Time    `json:"created_at"`
}

type VoteResponse struct {
	Poll       PollView   `json:"poll"`
	VoteAction VoteAction `json:"vote_action"`
}

type PollDetailsResponse struct {
	Poll         PollView  `json:"poll"`
	UserHasVoted bool      `json:"user_has_voted"`
	UserVote     *UserVote `json:"user_vote,omitempty"`
}

type AttendResponse struct {
	MeetingID string              `json:"meeting_id"`
	Status    ParticipationStatus `json:"status"`
}

type UpdateCapacityResponse struct {
	MeetingID string   `json:"meeting_id"`
	Capacity  int      `json:"capacity"`
	Promoted  []string `json:"promoted"`
}

type ParticipantsResponse struct {
	MeetingID    string        `json:"meeting_id"`
	Participants []Participant `json:"participants"`
}

// Domain types

// PollOption is one choice; its index in PollData.Options is the identifier
// votes refer to.
type PollOption struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// PollSettings holds the only two knobs a poll has.
type PollSettings struct {
	AllowMultipleVotes bool       `json:"allow_multiple_votes"`
	EndDate            *time.Time `json:"end_date,omitempty"`
}

// VoteEntry is one ledger record of a user's choice(s).
type VoteEntry struct {
	UserID        string    `json:"user_id"`
	OptionIndices []int     `json:"option_indices"`
	VotedAt       time.Time `json:"voted_at"`
}

// PollData is the document persisted in post.poll_data and rewritten as a
// unit on every mutation.
type PollData struct {
	Question string       `json:"question"`
	Options  []PollOption `json:"options"`
	Settings PollSettings `json:"settings"`
	Votes    []VoteEntry  `json:"votes"`
}

// Poll is a content item of type poll together with its document.
type Poll struct {
	ID               string
	CommunityID      string
	CreatorID        string
	Content          string
	IsSupportersOnly bool
	IsHidden         bool
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	PollData
}

// IsEnded reports whether the poll stopped accepting votes at or before now.
func (p *Poll) IsEnded(now time.Time) bool {
	return p.Settings.EndDate != nil && !p.Settings.EndDate.After(now)
}

// TotalVotes is the sum of all option tallies.
func (p *Poll) TotalVotes() int {
	total := 0
	for _, o := range p.Options {
		total += o.Votes
	}
	return total
}

// Recount derives option tallies from the ledger. Tallies stored in
// Options must always equal this.
func (p *Poll) Recount() []int {
	counts := make([]int, len(p.Options))
	for _, v := range p.Votes {
		for _, idx := range v.OptionIndices {
			if idx >= 0 && idx < len(counts) {
				counts[idx]++
			}
		}
	}
	return counts
}

// UserEntries returns the ledger entries cast by userID.
func (p *Poll) UserEntries(userID string) []VoteEntry {
	var entries []VoteEntry
	for _, v := range p.Votes {
		if v.UserID == userID {
			entries = append(entries, v)
		}
	}
	return entries
}

// View shapes the poll for API responses.
func (p *Poll) View(now time.Time) PollView {
	options := make([]PollOption, len(p.Options))
	copy(options, p.Options)
	return PollView{
		ID:               p.ID,
		CommunityID:      p.CommunityID,
		CreatorID:        p.CreatorID,
		Content:          p.Content,
		IsSupportersOnly: p.IsSupportersOnly,
		Question:         p.Question,
		Options:          options,
		Settings:         p.Settings,
		TotalVotes:       p.TotalVotes(),
		IsEnded:          p.IsEnded(now),
		CreatedAt:        p.CreatedAt,
	}
}

// UserVote summarises one user's active choices on a poll.
type UserVote struct {
	OptionIndices []int     `json:"option_indices"`
	VotedAt       time.Time `json:"voted_at"`
	VoteCount     int       `json:"vote_count"`
}

// PollDetails is a poll enriched for the requesting user.
type PollDetails struct {
	Poll         *Poll
	UserHasVoted bool
	UserVote     *UserVote
}

type Meeting struct {
	ID             string     `json:"id"`
	GroupID        string     `json:"group_id"`
	Title          string     `json:"title"`
	Capacity       int        `json:"capacity"`
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	CreatedBy      string     `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	AttendingCount int        `json:"attending_count"`
	WaitlistCount  int        `json:"waitlist_count"`
}

type Participant struct {
	MeetingID      string              `json:"meeting_id"`
	UserID         string              `json:"user_id"`
	Status         ParticipationStatus `json:"status"`
	IndicationTime time.Time           `json:"indication_time"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
