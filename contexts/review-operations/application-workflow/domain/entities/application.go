package entities

import "time"

// Application statuses form a closed enum. awaiting_review is the intake
// state; the first vote moves it to pending.
const (
	StatusAwaitingReview = "awaiting_review"
	StatusPending        = "pending"
	StatusApproved       = "approved"
	StatusRejected       = "rejected"
	StatusWaiting        = "waiting"
)

// Vote values.
const (
	VoteApprove = "approve"
	VoteReject  = "reject"
)

// Team approval kinds.
const (
	ApprovalDiscord = "discord"
	ApprovalInGame  = "in_game"
)

// HiddenApplicantName replaces the real name for reviewers who are not
// training managers.
const HiddenApplicantName = "[Hidden - Training Manager Only]"

func ValidStatus(status string) bool {
	switch status {
	case StatusAwaitingReview, StatusPending, StatusApproved, StatusRejected, StatusWaiting:
		return true
	}
	return false
}

// Submission is the applicant-provided questionnaire. Discord-specific and
// in-game-specific answers default to "N/A" for the other track.
type Submission struct {
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

	DiscordModerationTools        string `json:"discord_moderation_tools"`
	DiscordSpamHandling           string `json:"discord_spam_handling"`
	DiscordBotsExperience         string `json:"discord_bots_experience"`
	DiscordHarassmentHandling     string `json:"discord_harassment_handling"`
	DiscordVoiceChannelManagement string `json:"discord_voice_channel_management"`

	TimePlayingTopwar string `json:"time_playing_topwar"`
	WhyGoodModerator  string `json:"why_good_moderator"`
}

// Vote is one moderator's position on an application. At most one vote per
// moderator; re-voting replaces in place.
type Vote struct {
	Moderator string    `json:"moderator"`
	Vote      string    `json:"vote"`
	Timestamp time.Time `json:"timestamp"`
}

// Comment is an append-only ledger entry. Status changes and team approvals
// synthesize tagged comments into the same ledger.
type Comment struct {
	Moderator string    `json:"moderator"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

// Application is one moderator application under review.
type Application struct {
	ID string `json:"id"`
	Submission

	Status           string `json:"status"`
	DiscordApproved  bool   `json:"discord_approved"`
	InGameApproved   bool   `json:"in_game_approved"`
	DiscordApprovedBy string `json:"discord_approved_by,omitempty"`
	InGameApprovedBy  string `json:"in_game_approved_by,omitempty"`

	Votes    []Vote    `json:"votes"`
	Comments []Comment `json:"comments"`
	ViewedBy []string  `json:"viewed_by"`

	SubmittedAt time.Time  `json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy  string     `json:"reviewed_by,omitempty"`
}

// HasViewed reports whether the username already appears in the viewed-by set.
func (a Application) HasViewed(username string) bool {
	for _, viewer := range a.ViewedBy {
		if viewer == username {
			return true
		}
	}
	return false
}

// VoteBy returns the moderator's current vote, if any.
func (a Application) VoteBy(username string) (Vote, bool) {
	for _, vote := range a.Votes {
		if vote.Moderator == username {
			return vote, true
		}
	}
	return Vote{}, false
}
