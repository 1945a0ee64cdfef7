package postgresadapter

import (
	"encoding/json"
	"time"

	"modpanel/contexts/identity-access/account-security/domain/entities"
)

type moderatorModel struct {
	ID                  string `gorm:"primaryKey;column:id"`
	Username            string `gorm:"column:username;uniqueIndex"`
	Email               string `gorm:"column:email"`
	PasswordHash        string `gorm:"column:password_hash"`
	PasswordHistory     string `gorm:"column:password_history;type:text"`
	Role                string `gorm:"column:role"`
	Roles               string `gorm:"column:roles;type:text"`
	Status              string `gorm:"column:status"`
	IsTrainingManager   bool   `gorm:"column:is_training_manager"`
	IsInGameLeader      bool   `gorm:"column:is_in_game_leader"`
	IsDiscordLeader     bool   `gorm:"column:is_discord_leader"`
	IsAdmin             bool   `gorm:"column:is_admin"`
	CanViewApplications bool   `gorm:"column:can_view_applications"`
	FailedLoginAttempts int    `gorm:"column:failed_login_attempts"`
	LockedAt            *time.Time
	ResetToken          string `gorm:"column:reset_token"`
	ResetTokenExpiresAt *time.Time
	MustChangePassword  bool `gorm:"column:must_change_password"`
	CreatedAt           time.Time
	LastLogin           *time.Time
}

func (moderatorModel) TableName() string { return "moderators" }

func moderatorModelFromEntity(m entities.Moderator) moderatorModel {
	history, _ := json.Marshal(m.PasswordHistory)
	roles, _ := json.Marshal(m.Roles)
	return moderatorModel{
		ID:                  m.ID,
		Username:            m.Username,
		Email:               m.Email,
		PasswordHash:        m.PasswordHash,
		PasswordHistory:     string(history),
		Role:                m.Role,
		Roles:               string(roles),
		Status:              m.Status,
		IsTrainingManager:   m.IsTrainingManager,
		IsInGameLeader:      m.IsInGameLeader,
		IsDiscordLeader:     m.IsDiscordLeader,
		IsAdmin:             m.IsAdmin,
		CanViewApplications: m.CanViewApplications,
		FailedLoginAttempts: m.FailedLoginAttempts,
		LockedAt:            m.LockedAt,
		ResetToken:          m.ResetToken,
		ResetTokenExpiresAt: m.ResetTokenExpiresAt,
		MustChangePassword:  m.MustChangePassword,
		CreatedAt:           m.CreatedAt,
		LastLogin:           m.LastLogin,
	}
}

func (row moderatorModel) toEntity() entities.Moderator {
	var history []string
	_ = json.Unmarshal([]byte(row.PasswordHistory), &history)
	var roles []string
	_ = json.Unmarshal([]byte(row.Roles), &roles)
	return entities.Moderator{
		ID:                  row.ID,
		Username:            row.Username,
		Email:               row.Email,
		PasswordHash:        row.PasswordHash,
		PasswordHistory:     history,
		Role:                row.Role,
		Roles:               roles,
		Status:              row.Status,
		IsTrainingManager:   row.IsTrainingManager,
		IsInGameLeader:      row.IsInGameLeader,
		IsDiscordLeader:     row.IsDiscordLeader,
		IsAdmin:             row.IsAdmin,
		CanViewApplications: row.CanViewApplications,
		FailedLoginAttempts: row.FailedLoginAttempts,
		LockedAt:            row.LockedAt,
		ResetToken:          row.ResetToken,
		ResetTokenExpiresAt: row.ResetTokenExpiresAt,
		MustChangePassword:  row.MustChangePassword,
		CreatedAt:           row.CreatedAt,
		LastLogin:           row.LastLogin,
	}
}
