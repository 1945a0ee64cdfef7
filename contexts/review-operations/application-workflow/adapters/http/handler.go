package httpadapter

import (
	"context"
	"fmt"
	"log/slog"

	"modpanel/contexts/review-operations/application-workflow/application"
	"modpanel/contexts/review-operations/application-workflow/domain/entities"
	httptransport "modpanel/contexts/review-operations/application-workflow/transport/http"
)

// Handler maps HTTP DTOs to workflow application calls.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// SubmitHandler is the public intake endpoint; there is no actor.
func (h Handler) SubmitHandler(ctx context.Context, request httptransport.SubmitApplicationRequest) (httptransport.ApplicationDTO, error) {
	logger := h.logger()
	logger.Info("http application submit received",
		"event", "workflow_http_submit_received",
		"module", "review-operations/application-workflow",
		"layer", "transport",
		"position", request.Position,
	)

	submission := submissionFromPayload(request.SubmissionPayload)
	created, err := h.Service.Submit(ctx, submission)
	if err != nil {
		logger.Error("http application submit failed",
			"event", "workflow_http_submit_failed",
			"module", "review-operations/application-workflow",
			"layer", "transport",
			"error", err.Error(),
		)
		return httptransport.ApplicationDTO{}, err
	}
	return applicationDTO(created), nil
}

func (h Handler) ListHandler(ctx context.Context, actor application.Actor, search string) (httptransport.ListApplicationsResponse, error) {
	applications, err := h.Service.List(ctx, actor, search)
	if err != nil {
		return httptransport.ListApplicationsResponse{}, err
	}
	items := make([]httptransport.ApplicationDTO, 0, len(applications))
	for _, app := range applications {
		items = append(items, applicationDTO(app))
	}
	return httptransport.ListApplicationsResponse{Applications: items}, nil
}

func (h Handler) GetHandler(ctx context.Context, actor application.Actor, id string) (httptransport.ApplicationDTO, error) {
	app, err := h.Service.Get(ctx, actor, id)
	if err != nil {
		return httptransport.ApplicationDTO{}, err
	}
	return applicationDTO(app), nil
}

func (h Handler) CastVoteHandler(ctx context.Context, actor application.Actor, id string, request httptransport.CastVoteRequest) (httptransport.MessageResponse, error) {
	if err := h.Service.CastVote(ctx, actor, id, request.Vote); err != nil {
		return httptransport.MessageResponse{}, err
	}
	return httptransport.MessageResponse{Message: "Vote recorded successfully"}, nil
}

func (h Handler) AddCommentHandler(ctx context.Context, actor application.Actor, id string, request httptransport.AddCommentRequest) (httptransport.AddCommentResponse, error) {
	comment, err := h.Service.AddComment(ctx, actor, id, request.Comment)
	if err != nil {
		return httptransport.AddCommentResponse{}, err
	}
	return httptransport.AddCommentResponse{
		Message: "Comment added successfully",
		Comment: commentDTO(comment),
	}, nil
}

func (h Handler) ChangeStatusHandler(ctx context.Context, actor application.Actor, id string, request httptransport.ChangeStatusRequest) (httptransport.ApplicationDTO, error) {
	logger := h.logger()
	logger.Info("http status change received",
		"event", "workflow_http_status_received",
		"module", "review-operations/application-workflow",
		"layer", "transport",
		"application_id", id,
		"new_status", request.Status,
		"actor", actor.Username,
	)

	updated, err := h.Service.ChangeStatus(ctx, actor, id, request.Status, request.Comment)
	if err != nil {
		logger.Error("http status change failed",
			"event", "workflow_http_status_failed",
			"module", "review-operations/application-workflow",
			"layer", "transport",
			"application_id", id,
			"error", err.Error(),
		)
		return httptransport.ApplicationDTO{}, err
	}
	return applicationDTO(updated), nil
}

func (h Handler) TeamApproveHandler(ctx context.Context, actor application.Actor, id string, request httptransport.TeamApprovalRequest) (httptransport.MessageResponse, error) {
	if err := h.Service.TeamApprove(ctx, actor, id, request.ApprovalType, request.Comment); err != nil {
		return httptransport.MessageResponse{}, err
	}
	return httptransport.MessageResponse{Message: "Team approval recorded"}, nil
}

func (h Handler) TeamUnapproveHandler(ctx context.Context, actor application.Actor, id string, request httptransport.TeamApprovalRequest) (httptransport.MessageResponse, error) {
	if err := h.Service.TeamUnapprove(ctx, actor, id, request.ApprovalType); err != nil {
		return httptransport.MessageResponse{}, err
	}
	return httptransport.MessageResponse{Message: "Team approval cleared"}, nil
}

func (h Handler) DeleteHandler(ctx context.Context, actor application.Actor, id string) (httptransport.MessageResponse, error) {
	if err := h.Service.Delete(ctx, actor, id); err != nil {
		return httptransport.MessageResponse{}, err
	}
	return httptransport.MessageResponse{Message: fmt.Sprintf("Application %s deleted successfully", id)}, nil
}

func (h Handler) ListAuditLogsHandler(ctx context.Context, actor application.Actor) (httptransport.ListAuditLogsResponse, error) {
	logs, err := h.Service.ListAuditLogs(ctx, actor)
	if err != nil {
		return httptransport.ListAuditLogsResponse{}, err
	}
	items := make([]httptransport.AuditLogDTO, 0, len(logs))
	for _, entry := range logs {
		items = append(items, httptransport.AuditLogDTO{
			ID:              entry.ID,
			Action:          entry.Action,
			ApplicationID:   entry.ApplicationID,
			ApplicationName: entry.ApplicationName,
			PerformedBy:     entry.PerformedBy,
			Comment:         entry.Comment,
			OldStatus:       entry.OldStatus,
			NewStatus:       entry.NewStatus,
			CreatedAt:       entry.CreatedAt,
		})
	}
	return httptransport.ListAuditLogsResponse{Logs: items}, nil
}

// IntakeStatusHandler is public so the application form can hide itself when
// intake is closed.
func (h Handler) IntakeStatusHandler(ctx context.Context) (httptransport.IntakeSettingsDTO, error) {
	settings, err := h.Service.IntakeSettings(ctx)
	if err != nil {
		return httptransport.IntakeSettingsDTO{}, err
	}
	return intakeSettingsDTO(settings), nil
}

func (h Handler) UpdateIntakeSettingsHandler(ctx context.Context, actor application.Actor, request httptransport.UpdateIntakeSettingsRequest) (httptransport.IntakeSettingsDTO, error) {
	settings, err := h.Service.UpdateIntakeSettings(ctx, actor, request.ApplicationsEnabled)
	if err != nil {
		return httptransport.IntakeSettingsDTO{}, err
	}
	return intakeSettingsDTO(settings), nil
}

func (h Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func submissionFromPayload(p httptransport.SubmissionPayload) entities.Submission {
	submission := entities.Submission{
		Name:                  p.Name,
		Email:                 p.Email,
		Position:              p.Position,
		DiscordHandle:         p.DiscordHandle,
		IngameName:            p.IngameName,
		Age:                   p.Age,
		Country:               p.Country,
		ActivityTimes:         p.ActivityTimes,
		Server:                p.Server,
		NativeLanguage:        p.NativeLanguage,
		OtherLanguages:        p.OtherLanguages,
		PreviousExperience:    p.PreviousExperience,
		BasicQualities:        p.BasicQualities,
		FavouriteEvent:        p.FavouriteEvent,
		FreeGems:              p.FreeGems,
		HeroesMutated:         p.HeroesMutated,
		HighestCharacterLevel: p.HighestCharacterLevel,
		DiscordToolsComfort:   p.DiscordToolsComfort,
		GuidelinesRating:      p.GuidelinesRating,
		ComplexMechanic:       p.ComplexMechanic,
		UnknownQuestion:       p.UnknownQuestion,
		HeroDevelopment:       p.HeroDevelopment,
		RacistR4:              p.RacistR4,
		ModeratorSwearing:     p.ModeratorSwearing,

		DiscordModerationTools:        defaultNA(p.DiscordModerationTools),
		DiscordSpamHandling:           defaultNA(p.DiscordSpamHandling),
		DiscordBotsExperience:         defaultNA(p.DiscordBotsExperience),
		DiscordHarassmentHandling:     defaultNA(p.DiscordHarassmentHandling),
		DiscordVoiceChannelManagement: defaultNA(p.DiscordVoiceChannelManagement),

		TimePlayingTopwar: defaultNA(p.TimePlayingTopwar),
		WhyGoodModerator:  defaultNA(p.WhyGoodModerator),
	}
	return submission
}

func defaultNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

func payloadFromSubmission(s entities.Submission) httptransport.SubmissionPayload {
	return httptransport.SubmissionPayload{
		Name:                  s.Name,
		Email:                 s.Email,
		Position:              s.Position,
		DiscordHandle:         s.DiscordHandle,
		IngameName:            s.IngameName,
		Age:                   s.Age,
		Country:               s.Country,
		ActivityTimes:         s.ActivityTimes,
		Server:                s.Server,
		NativeLanguage:        s.NativeLanguage,
		OtherLanguages:        s.OtherLanguages,
		PreviousExperience:    s.PreviousExperience,
		BasicQualities:        s.BasicQualities,
		FavouriteEvent:        s.FavouriteEvent,
		FreeGems:              s.FreeGems,
		HeroesMutated:         s.HeroesMutated,
		HighestCharacterLevel: s.HighestCharacterLevel,
		DiscordToolsComfort:   s.DiscordToolsComfort,
		GuidelinesRating:      s.GuidelinesRating,
		ComplexMechanic:       s.ComplexMechanic,
		UnknownQuestion:       s.UnknownQuestion,
		HeroDevelopment:       s.HeroDevelopment,
		RacistR4:              s.RacistR4,
		ModeratorSwearing:     s.ModeratorSwearing,

		DiscordModerationTools:        s.DiscordModerationTools,
		DiscordSpamHandling:           s.DiscordSpamHandling,
		DiscordBotsExperience:         s.DiscordBotsExperience,
		DiscordHarassmentHandling:     s.DiscordHarassmentHandling,
		DiscordVoiceChannelManagement: s.DiscordVoiceChannelManagement,

		TimePlayingTopwar: s.TimePlayingTopwar,
		WhyGoodModerator:  s.WhyGoodModerator,
	}
}

func commentDTO(c entities.Comment) httptransport.CommentDTO {
	return httptransport.CommentDTO{
		Moderator: c.Moderator,
		Comment:   c.Comment,
		Timestamp: c.Timestamp,
	}
}

func applicationDTO(a entities.Application) httptransport.ApplicationDTO {
	votes := make([]httptransport.VoteDTO, 0, len(a.Votes))
	for _, vote := range a.Votes {
		votes = append(votes, httptransport.VoteDTO{
			Moderator: vote.Moderator,
			Vote:      vote.Vote,
			Timestamp: vote.Timestamp,
		})
	}
	comments := make([]httptransport.CommentDTO, 0, len(a.Comments))
	for _, comment := range a.Comments {
		comments = append(comments, commentDTO(comment))
	}
	return httptransport.ApplicationDTO{
		ID:                a.ID,
		SubmissionPayload: payloadFromSubmission(a.Submission),

		Status:            a.Status,
		DiscordApproved:   a.DiscordApproved,
		InGameApproved:    a.InGameApproved,
		DiscordApprovedBy: a.DiscordApprovedBy,
		InGameApprovedBy:  a.InGameApprovedBy,

		Votes:    votes,
		Comments: comments,
		ViewedBy: a.ViewedBy,

		SubmittedAt: a.SubmittedAt,
		ReviewedAt:  a.ReviewedAt,
		ReviewedBy:  a.ReviewedBy,
	}
}

func intakeSettingsDTO(s entities.IntakeSettings) httptransport.IntakeSettingsDTO {
	return httptransport.IntakeSettingsDTO{
		ApplicationsEnabled: s.ApplicationsEnabled,
		UpdatedBy:           s.UpdatedBy,
		UpdatedAt:           s.UpdatedAt,
	}
}
