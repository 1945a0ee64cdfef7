package postgresadapter

import (
	"time"

	"modpanel/contexts/review-operations/application-workflow/domain/entities"
)

type applicationModel struct {
	ID                string `gorm:"primaryKey;column:id"`
	Name              string `gorm:"column:name"`
	Email             string `gorm:"column:email"`
	Position          string `gorm:"column:position"`
	DiscordHandle     string `gorm:"column:discord_handle;index"`
	IngameName        string `gorm:"column:ingame_name;index"`
	Age               int    `gorm:"column:age"`
	Country           string `gorm:"column:country"`
	ActivityTimes     string `gorm:"column:activity_times"`
	Server            string `gorm:"column:server;index"`
	NativeLanguage    string `gorm:"column:native_language"`
	OtherLanguages    string `gorm:"column:other_languages"`
	PreviousExperience string `gorm:"column:previous_experience"`
	BasicQualities    string `gorm:"column:basic_qualities"`
	FavouriteEvent    string `gorm:"column:favourite_event"`
	FreeGems          string `gorm:"column:free_gems"`
	HeroesMutated     string `gorm:"column:heroes_mutated"`
	HighestCharacterLevel int `gorm:"column:highest_character_level"`
	DiscordToolsComfort string `gorm:"column:discord_tools_comfort"`
	GuidelinesRating  string `gorm:"column:guidelines_rating"`
	ComplexMechanic   string `gorm:"column:complex_mechanic"`
	UnknownQuestion   string `gorm:"column:unknown_question"`
	HeroDevelopment   string `gorm:"column:hero_development"`
	RacistR4          string `gorm:"column:racist_r4"`
	ModeratorSwearing string `gorm:"column:moderator_swearing"`

	DiscordModerationTools        string `gorm:"column:discord_moderation_tools"`
	DiscordSpamHandling           string `gorm:"column:discord_spam_handling"`
	DiscordBotsExperience         string `gorm:"column:discord_bots_experience"`
	DiscordHarassmentHandling     string `gorm:"column:discord_harassment_handling"`
	DiscordVoiceChannelManagement string `gorm:"column:discord_voice_channel_management"`

	TimePlayingTopwar string `gorm:"column:time_playing_topwar"`
	WhyGoodModerator  string `gorm:"column:why_good_moderator"`

	Status            string `gorm:"column:status;index"`
	DiscordApproved   bool   `gorm:"column:discord_approved"`
	InGameApproved    bool   `gorm:"column:in_game_approved"`
	DiscordApprovedBy string `gorm:"column:discord_approved_by"`
	InGameApprovedBy  string `gorm:"column:in_game_approved_by"`

	SubmittedAt time.Time  `gorm:"column:submitted_at;index"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at"`
	ReviewedBy  string     `gorm:"column:reviewed_by"`
}

func (applicationModel) TableName() string { return "applications" }

type voteModel struct {
	ApplicationID string    `gorm:"column:application_id;uniqueIndex:idx_votes_app_moderator"`
	Moderator     string    `gorm:"column:moderator;uniqueIndex:idx_votes_app_moderator"`
	Vote          string    `gorm:"column:vote"`
	Timestamp     time.Time `gorm:"column:timestamp"`
}

func (voteModel) TableName() string { return "application_votes" }

type commentModel struct {
	Seq           uint64    `gorm:"primaryKey;autoIncrement;column:seq"`
	ApplicationID string    `gorm:"column:application_id;index"`
	Moderator     string    `gorm:"column:moderator"`
	Comment       string    `gorm:"column:comment"`
	Timestamp     time.Time `gorm:"column:timestamp"`
}

func (commentModel) TableName() string { return "application_comments" }

type viewerModel struct {
	ApplicationID string `gorm:"column:application_id;uniqueIndex:idx_viewers_app_username"`
	Username      string `gorm:"column:username;uniqueIndex:idx_viewers_app_username"`
}

func (viewerModel) TableName() string { return "application_viewers" }

type auditLogModel struct {
	ID              string    `gorm:"primaryKey;column:id"`
	Action          string    `gorm:"column:action"`
	ApplicationID   string    `gorm:"column:application_id;index"`
	ApplicationName string    `gorm:"column:application_name"`
	PerformedBy     string    `gorm:"column:performed_by"`
	Comment         string    `gorm:"column:comment"`
	OldStatus       string    `gorm:"column:old_status"`
	NewStatus       string    `gorm:"column:new_status"`
	CreatedAt       time.Time `gorm:"column:created_at;index"`
}

func (auditLogModel) TableName() string { return "application_audit_logs" }

const intakeSettingsID = "app_settings"

type intakeSettingsModel struct {
	ID                  string    `gorm:"primaryKey;column:id"`
	ApplicationsEnabled bool      `gorm:"column:applications_enabled"`
	UpdatedBy           string    `gorm:"column:updated_by"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

func (intakeSettingsModel) TableName() string { return "application_settings" }

func applicationModelFromEntity(a entities.Application) applicationModel {
	return applicationModel{
		ID:                    a.ID,
		Name:                  a.Name,
		Email:                 a.Email,
		Position:              a.Position,
		DiscordHandle:         a.DiscordHandle,
		IngameName:            a.IngameName,
		Age:                   a.Age,
		Country:               a.Country,
		ActivityTimes:         a.ActivityTimes,
		Server:                a.Server,
		NativeLanguage:        a.NativeLanguage,
		OtherLanguages:        a.OtherLanguages,
		PreviousExperience:    a.PreviousExperience,
		BasicQualities:        a.BasicQualities,
		FavouriteEvent:        a.FavouriteEvent,
		FreeGems:              a.FreeGems,
		HeroesMutated:         a.HeroesMutated,
		HighestCharacterLevel: a.HighestCharacterLevel,
		DiscordToolsComfort:   a.DiscordToolsComfort,
		GuidelinesRating:      a.GuidelinesRating,
		ComplexMechanic:       a.ComplexMechanic,
		UnknownQuestion:       a.UnknownQuestion,
		HeroDevelopment:       a.HeroDevelopment,
		RacistR4:              a.RacistR4,
		ModeratorSwearing:     a.ModeratorSwearing,

		DiscordModerationTools:        a.DiscordModerationTools,
		DiscordSpamHandling:           a.DiscordSpamHandling,
		DiscordBotsExperience:         a.DiscordBotsExperience,
		DiscordHarassmentHandling:     a.DiscordHarassmentHandling,
		DiscordVoiceChannelManagement: a.DiscordVoiceChannelManagement,

		TimePlayingTopwar: a.TimePlayingTopwar,
		WhyGoodModerator:  a.WhyGoodModerator,

		Status:            a.Status,
		DiscordApproved:   a.DiscordApproved,
		InGameApproved:    a.InGameApproved,
		DiscordApprovedBy: a.DiscordApprovedBy,
		InGameApprovedBy:  a.InGameApprovedBy,

		SubmittedAt: a.SubmittedAt,
		ReviewedAt:  a.ReviewedAt,
		ReviewedBy:  a.ReviewedBy,
	}
}

func (row applicationModel) toEntity() entities.Application {
	return entities.Application{
		ID: row.ID,
		Submission: entities.Submission{
			Name:                  row.Name,
			Email:                 row.Email,
			Position:              row.Position,
			DiscordHandle:         row.DiscordHandle,
			IngameName:            row.IngameName,
			Age:                   row.Age,
			Country:               row.Country,
			ActivityTimes:         row.ActivityTimes,
			Server:                row.Server,
			NativeLanguage:        row.NativeLanguage,
			OtherLanguages:        row.OtherLanguages,
			PreviousExperience:    row.PreviousExperience,
			BasicQualities:        row.BasicQualities,
			FavouriteEvent:        row.FavouriteEvent,
			FreeGems:              row.FreeGems,
			HeroesMutated:         row.HeroesMutated,
			HighestCharacterLevel: row.HighestCharacterLevel,
			DiscordToolsComfort:   row.DiscordToolsComfort,
			GuidelinesRating:      row.GuidelinesRating,
			ComplexMechanic:       row.ComplexMechanic,
			UnknownQuestion:       row.UnknownQuestion,
			HeroDevelopment:       row.HeroDevelopment,
			RacistR4:              row.RacistR4,
			ModeratorSwearing:     row.ModeratorSwearing,

			DiscordModerationTools:        row.DiscordModerationTools,
			DiscordSpamHandling:           row.DiscordSpamHandling,
			DiscordBotsExperience:         row.DiscordBotsExperience,
			DiscordHarassmentHandling:     row.DiscordHarassmentHandling,
			DiscordVoiceChannelManagement: row.DiscordVoiceChannelManagement,

			TimePlayingTopwar: row.TimePlayingTopwar,
			WhyGoodModerator:  row.WhyGoodModerator,
		},

		Status:            row.Status,
		DiscordApproved:   row.DiscordApproved,
		InGameApproved:    row.InGameApproved,
		DiscordApprovedBy: row.DiscordApprovedBy,
		InGameApprovedBy:  row.InGameApprovedBy,

		SubmittedAt: row.SubmittedAt,
		ReviewedAt:  row.ReviewedAt,
		ReviewedBy:  row.ReviewedBy,
	}
}
