package httptransport

import "time"

// SubmissionPayload mirrors the public application form. Track-specific
// questions default to "N/A" when left blank.
type SubmissionPayload struct {
	Name                  string `json:"name"`
	Email                 string `json:"email,omitempty"`
	Position              string `json:"position"`
	DiscordHandle         string `json:"discord_handle"`
	IngameName            string `json:"ingame_name"`
	Age                   int    `json:"age"`
	Country               string `json:"country"`
	ActivityTimes         string `json:"activity_times"`
	Server                string `json:"server"`
	NativeLanguage        string `json:"native_language"`
	OtherLanguages        string `json:"other_languages"`
	PreviousExperience    string `json:"previous_experience"`
	BasicQualities        string `json:"basic_qualities"`
	FavouriteEvent        string `json:"favourite_event"`
	FreeGems              string `json:"free_gems"`
	HeroesMutated         string `json:"heroes_mutated"`
	HighestCharacterLevel int    `json:"highest_character_level,omitempty"`
	DiscordToolsComfort   string `json:"discord_tools_comfort"`
	GuidelinesRating      string `json:"guidelines_rating"`
	ComplexMechanic       string `json:"complex_mechanic"`
	UnknownQuestion       string `json:"unknown_question"`
	HeroDevelopment       string `json:"hero_development"`
	RacistR4              string `json:"racist_r4"`
	ModeratorSwearing     string `json:"moderator_swearing"`

	DiscordModerationTools        string `json:"discord_moderation_tools,omitempty"`
	DiscordSpamHandling           string `json:"discord_spam_handling,omitempty"`
	DiscordBotsExperience         string `json:"discord_bots_experience,omitempty"`
	DiscordHarassmentHandling     string `json:"discord_harassment_handling,omitempty"`
	DiscordVoiceChannelManagement string `json:"discord_voice_channel_management,omitempty"`

	TimePlayingTopwar string `json:"time_playing_topwar,omitempty"`
	WhyGoodModerator  string `json:"why_good_moderator,omitempty"`
}

type SubmitApplicationRequest struct {
	SubmissionPayload
}

type VoteDTO struct {
	Moderator string    `json:"moderator"`
	Vote      string    `json:"vote"`
	Timestamp time.Time `json:"timestamp"`
}

type CommentDTO struct {
	Moderator string    `json:"moderator"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

type ApplicationDTO struct {
	ID string `json:"id"`
	SubmissionPayload

	Status            string `json:"status"`
	DiscordApproved   bool   `json:"discord_approved"`
	InGameApproved    bool   `json:"in_game_approved"`
	DiscordApprovedBy string `json:"discord_approved_by,omitempty"`
	InGameApprovedBy  string `json:"in_game_approved_by,omitempty"`

	Votes    []VoteDTO    `json:"votes"`
	Comments []CommentDTO `json:"comments"`
	ViewedBy []string     `json:"viewed_by"`

	SubmittedAt time.Time  `json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy  string     `json:"reviewed_by,omitempty"`
}

type ListApplicationsResponse struct {
	Applications []ApplicationDTO `json:"applications"`
}

type CastVoteRequest struct {
	Vote string `json:"vote"`
}

type AddCommentRequest struct {
	Comment string `json:"comment"`
}

type AddCommentResponse struct {
	Message string     `json:"message"`
	Comment CommentDTO `json:"comment"`
}

type ChangeStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

type TeamApprovalRequest struct {
	ApprovalType string `json:"approval_type"`
	Comment      string `json:"comment,omitempty"`
}

type AuditLogDTO struct {
	ID              string    `json:"id"`
	Action          string    `json:"action"`
	ApplicationID   string    `json:"application_id"`
	ApplicationName string    `json:"application_name"`
	PerformedBy     string    `json:"performed_by"`
	Comment         string    `json:"comment"`
	OldStatus       string    `json:"old_status,omitempty"`
	NewStatus       string    `json:"new_status,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type ListAuditLogsResponse struct {
	Logs []AuditLogDTO `json:"logs"`
}

type IntakeSettingsDTO struct {
	ApplicationsEnabled bool      `json:"applications_enabled"`
	UpdatedBy           string    `json:"updated_by,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type UpdateIntakeSettingsRequest struct {
	ApplicationsEnabled bool `json:"applications_enabled"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
