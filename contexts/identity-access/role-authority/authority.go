package roleauthority

import "sort"

// Canonical role names. The leader roles share one rank tier.
const (
	RoleModerator    = "moderator"
	RoleInGameLeader = "in_game_leader"
	RoleDiscordLead  = "discord_leader"
	RoleLMod         = "lmod"
	RoleSMod         = "smod"
	RoleMMod         = "mmod"
	RoleDeveloper    = "developer"
	RoleAdmin        = "admin"
)

// Table maps role names to ranks. Higher rank wins. Unknown roles rank as
// the lowest tier so that a typo can never grant access.
type Table map[string]int

// Default returns the canonical rank table.
func Default() Table {
	return Table{
		RoleModerator:    0,
		RoleInGameLeader: 1,
		RoleDiscordLead:  1,
		RoleLMod:         2,
		RoleSMod:         3,
		RoleMMod:         4,
		RoleDeveloper:    5,
		RoleAdmin:        6,
	}
}

// Rank returns the rank of a role, or the lowest tier for unknown roles.
func (t Table) Rank(role string) int {
	if rank, ok := t[role]; ok {
		return rank
	}
	return 0
}

// Known reports whether the role exists in the table.
func (t Table) Known(role string) bool {
	_, ok := t[role]
	return ok
}

// EffectiveRole returns the highest-ranked member of a moderator's role set,
// falling back to plain moderator when the set is empty or entirely
// unrecognized.
func (t Table) EffectiveRole(roles []string) string {
	best := RoleModerator
	bestRank := -1
	for _, role := range roles {
		if !t.Known(role) {
			continue
		}
		if rank := t.Rank(role); rank > bestRank {
			best = role
			bestRank = rank
		}
	}
	return best
}

// CanModifyRole reports whether an actor may change the target's role.
// An admin may modify anyone including themself; nobody else may touch
// their own role; a non-admin may only modify a strictly lower rank.
func (t Table) CanModifyRole(actorRole, targetRole string, isSelf bool) bool {
	if actorRole == RoleAdmin {
		return true
	}
	if isSelf {
		return false
	}
	return t.Rank(actorRole) > t.Rank(targetRole)
}

// AssignableRoles returns the roles the actor may hand out, lowest rank
// first. Admin assigns everything including admin; everyone else assigns
// only roles strictly below their own rank and never admin.
func (t Table) AssignableRoles(actorRole string) []string {
	var out []string
	actorRank := t.Rank(actorRole)
	for role, rank := range t {
		if actorRole == RoleAdmin {
			out = append(out, role)
			continue
		}
		if role != RoleAdmin && rank < actorRank {
			out = append(out, role)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if t[out[i]] != t[out[j]] {
			return t[out[i]] < t[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// IsElevated reports whether a role ranks strictly above plain moderator.
func (t Table) IsElevated(role string) bool {
	return t.Rank(role) > t.Rank(RoleModerator)
}

// CanReviewApplications gates application status changes: mmod and above,
// or the admin flag.
func (t Table) CanReviewApplications(role string, isAdmin bool) bool {
	return isAdmin || t.Rank(role) >= t.Rank(RoleMMod)
}

// CanCreatePolls gates poll creation: smod and above, or the admin flag.
func (t Table) CanCreatePolls(role string, isAdmin bool) bool {
	return isAdmin || t.Rank(role) >= t.Rank(RoleSMod)
}

// IsTopTier gates destructive operations (delete application/poll, unlock
// accounts): admin role or the admin flag only.
func (t Table) IsTopTier(role string, isAdmin bool) bool {
	return isAdmin || role == RoleAdmin
}
