package httpadapter

import (
	"context"
	"fmt"
	"log/slog"

	"modpanel/contexts/review-operations/poll-consensus/application"
	"modpanel/contexts/review-operations/poll-consensus/domain/entities"
	httptransport "modpanel/contexts/review-operations/poll-consensus/transport/http"
)

// Handler maps HTTP DTOs to poll application calls.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateHandler(ctx context.Context, actor application.Actor, request httptransport.CreatePollRequest) (httptransport.CreatePollResponse, error) {
	logger := h.logger()
	logger.Info("http poll create received",
		"event", "polls_http_create_received",
		"module", "review-operations/poll-consensus",
		"layer", "transport",
		"actor", actor.Username,
		"options", len(request.Options),
	)

	poll, err := h.Service.Create(ctx, actor, application.CreatePollCommand{
		Question:   request.Question,
		Options:    request.Options,
		ShowVoters: request.ShowVoters,
	})
	if err != nil {
		logger.Error("http poll create failed",
			"event", "polls_http_create_failed",
			"module", "review-operations/poll-consensus",
			"layer", "transport",
			"actor", actor.Username,
			"error", err.Error(),
		)
		return httptransport.CreatePollResponse{}, err
	}
	return httptransport.CreatePollResponse{Message: "Poll created successfully", ID: poll.ID}, nil
}

func (h Handler) ListActiveHandler(ctx context.Context) (httptransport.ListPollsResponse, error) {
	polls, err := h.Service.ListActive(ctx)
	if err != nil {
		return httptransport.ListPollsResponse{}, err
	}
	items := make([]httptransport.PollDTO, 0, len(polls))
	for _, poll := range polls {
		items = append(items, pollDTO(poll))
	}
	return httptransport.ListPollsResponse{Polls: items}, nil
}

func (h Handler) ListArchivedHandler(ctx context.Context) (httptransport.ListArchivedPollsResponse, error) {
	archived, err := h.Service.ListArchived(ctx)
	if err != nil {
		return httptransport.ListArchivedPollsResponse{}, err
	}
	items := make([]httptransport.ArchivedPollDTO, 0, len(archived))
	for _, poll := range archived {
		items = append(items, httptransport.ArchivedPollDTO{
			ID:        poll.ID,
			Question:  poll.Question,
			Outcome:   poll.Outcome,
			CreatedBy: poll.CreatedBy,
			ClosedAt:  poll.ClosedAt,
		})
	}
	return httptransport.ListArchivedPollsResponse{Polls: items}, nil
}

func (h Handler) VoteHandler(ctx context.Context, actor application.Actor, pollID string, request httptransport.VoteRequest) (httptransport.MessageResponse, error) {
	if err := h.Service.Vote(ctx, actor, pollID, request.OptionIndex); err != nil {
		return httptransport.MessageResponse{}, err
	}
	return httptransport.MessageResponse{Message: "Vote recorded successfully"}, nil
}

func (h Handler) MarkViewedHandler(ctx context.Context, actor application.Actor, pollID string) (httptransport.MessageResponse, error) {
	if err := h.Service.MarkViewed(ctx, actor, pollID); err != nil {
		return httptransport.MessageResponse{}, err
	}
	return httptransport.MessageResponse{Message: "Poll marked as viewed"}, nil
}

func (h Handler) UnviewedCountHandler(ctx context.Context, actor application.Actor) (httptransport.UnviewedCountResponse, error) {
	count, err := h.Service.UnviewedCount(ctx, actor)
	if err != nil {
		return httptransport.UnviewedCountResponse{}, err
	}
	return httptransport.UnviewedCountResponse{HasNewPolls: count > 0, Count: count}, nil
}

func (h Handler) CloseExpiredHandler(ctx context.Context) (httptransport.CloseExpiredResponse, error) {
	closed, err := h.Service.CloseExpired(ctx)
	if err != nil {
		return httptransport.CloseExpiredResponse{}, err
	}
	return httptransport.CloseExpiredResponse{
		Message: fmt.Sprintf("Checked and closed %d expired polls", closed),
		Closed:  closed,
	}, nil
}

func (h Handler) DeleteHandler(ctx context.Context, actor application.Actor, pollID string) (httptransport.MessageResponse, error) {
	if err := h.Service.Delete(ctx, actor, pollID); err != nil {
		return httptransport.MessageResponse{}, err
	}
	return httptransport.MessageResponse{Message: "Poll deleted successfully"}, nil
}

func (h Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func pollDTO(p entities.Poll) httptransport.PollDTO {
	options := make([]httptransport.PollOptionDTO, 0, len(p.Options))
	for _, option := range p.Options {
		options = append(options, httptransport.PollOptionDTO{
			Text:  option.Text,
			Votes: option.Votes,
		})
	}
	return httptransport.PollDTO{
		ID:         p.ID,
		Question:   p.Question,
		Options:    options,
		ShowVoters: p.ShowVoters,
		CreatedBy:  p.CreatedBy,
		CreatedAt:  p.CreatedAt,
		ExpiresAt:  p.ExpiresAt,
		IsActive:   p.IsActive,
		ViewedBy:   p.ViewedBy,
	}
}
