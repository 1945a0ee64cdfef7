package httptransport

import "time"

type CreatePollRequest struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	ShowVoters bool     `json:"show_voters"`
}

type CreatePollResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type PollOptionDTO struct {
	Text  string   `json:"text"`
	Votes []string `json:"votes"`
}

type PollDTO struct {
	ID         string          `json:"id"`
	Question   string          `json:"question"`
	Options    []PollOptionDTO `json:"options"`
	ShowVoters bool            `json:"show_voters"`
	CreatedBy  string          `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
	IsActive   bool            `json:"is_active"`
	ViewedBy   []string        `json:"viewed_by"`
}

type ListPollsResponse struct {
	Polls []PollDTO `json:"polls"`
}

type VoteRequest struct {
	OptionIndex int `json:"option_index"`
}

type ArchivedPollDTO struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Outcome   string    `json:"outcome"`
	CreatedBy string    `json:"created_by"`
	ClosedAt  time.Time `json:"closed_at"`
}

type ListArchivedPollsResponse struct {
	Polls []ArchivedPollDTO `json:"polls"`
}

type UnviewedCountResponse struct {
	HasNewPolls bool `json:"has_new_polls"`
	Count       int  `json:"count"`
}

type CloseExpiredResponse struct {
	Message string `json:"message"`
	Closed  int    `json:"closed"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
