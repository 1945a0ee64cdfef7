package application

import (
	"context"
	"errors"
	"testing"

	"modpanel/contexts/identity-access/account-security/adapters/memory"
	"modpanel/contexts/identity-access/account-security/domain/entities"
	domainerrors "modpanel/contexts/identity-access/account-security/domain/errors"
)

func TestUpdateRoleRequiresStrictlyHigherRank(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	registerModerator(t, service, "peer", []string{"smod"})

	smod := Actor{Username: "other", Role: "smod"}
	err := service.UpdateRole(context.Background(), smod, "peer", []string{"moderator"})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for equal rank, got %v", err)
	}

	mmod := Actor{Username: "manager", Role: "mmod"}
	if err := service.UpdateRole(context.Background(), mmod, "peer", []string{"lmod"}); err != nil {
		t.Fatalf("mmod demoting smod failed: %v", err)
	}
	moderator, _ := store.GetModerator(context.Background(), "peer")
	if moderator.Role != "lmod" {
		t.Fatalf("expected lmod, got %s", moderator.Role)
	}
}

func TestUpdateRoleRejectsSelfForNonAdmin(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	registerModerator(t, service, "selfie", []string{"mmod"})

	actor := Actor{Username: "selfie", Role: "mmod"}
	err := service.UpdateRole(context.Background(), actor, "selfie", []string{"smod"})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for self modification, got %v", err)
	}
}

func TestUpdateRoleNonAdminCannotGrantAdmin(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	registerModerator(t, service, "target", nil)

	dev := Actor{Username: "builder", Role: "developer"}
	err := service.UpdateRole(context.Background(), dev, "target", []string{"admin"})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	registerModerator(t, service, "target", nil)

	admin := Actor{Username: "root", Role: "admin", IsAdmin: true}
	err := service.UpdateRole(context.Background(), admin, "target", []string{"supreme_leader"})
	if !errors.Is(err, domainerrors.ErrUnknownRole) {
		t.Fatalf("expected unknown role, got %v", err)
	}
}

func TestEffectiveRoleDerivedFromHighestInSet(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	registerModerator(t, service, "target", nil)

	admin := Actor{Username: "root", Role: "admin", IsAdmin: true}
	if err := service.UpdateRole(context.Background(), admin, "target", []string{"moderator", "smod", "lmod"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	moderator, _ := store.GetModerator(context.Background(), "target")
	if moderator.Role != "smod" {
		t.Fatalf("expected effective role smod, got %s", moderator.Role)
	}
	if len(moderator.Roles) != 3 {
		t.Fatalf("role set should be preserved, got %v", moderator.Roles)
	}
}

func TestLastAdminCannotBeDemoted(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	registerModerator(t, service, "root", []string{"admin"})

	admin := Actor{Username: "root", Role: "admin", IsAdmin: true}
	// Admins may retarget their own role set, but not when they are the only
	// admin-ranked account left.
	err := service.UpdateRole(context.Background(), admin, "root", []string{"moderator"})
	if !errors.Is(err, domainerrors.ErrLastAdmin) {
		t.Fatalf("expected last admin protection, got %v", err)
	}

	registerModerator(t, service, "root2", []string{"admin"})
	if err := service.UpdateRole(context.Background(), admin, "root", []string{"moderator"}); err != nil {
		t.Fatalf("demotion with second admin present failed: %v", err)
	}
}

func TestLastAdminCannotBeDeleted(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	registerModerator(t, service, "root", []string{"admin"})
	registerModerator(t, service, "helper", []string{"mmod"})

	mmod := Actor{Username: "helper", Role: "mmod"}
	err := service.DeleteModerator(context.Background(), mmod, "root")
	if !errors.Is(err, domainerrors.ErrLastAdmin) {
		t.Fatalf("expected last admin protection, got %v", err)
	}

	if err := service.DeleteModerator(context.Background(), mmod, "helper"); !errors.Is(err, domainerrors.ErrSelfModification) {
		t.Fatalf("expected self modification refusal, got %v", err)
	}
}

func TestLastAdminCannotBeDisabled(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	registerModerator(t, service, "root", []string{"admin"})

	admin := Actor{Username: "other-admin", Role: "admin", IsAdmin: true}
	err := service.SetStatus(context.Background(), admin, "root", entities.StatusDisabled)
	if !errors.Is(err, domainerrors.ErrLastAdmin) {
		t.Fatalf("expected last admin protection, got %v", err)
	}
}

func TestSetStatusValidatesEnum(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	registerModerator(t, service, "target", nil)

	admin := Actor{Username: "root", Role: "admin", IsAdmin: true}
	err := service.SetStatus(context.Background(), admin, "target", "suspended")
	if !errors.Is(err, domainerrors.ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
}

func TestListModeratorsStripsCredentialMaterial(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	registerModerator(t, service, "alice", nil)

	moderators, err := service.ListModerators(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(moderators) != 1 {
		t.Fatalf("expected one moderator, got %d", len(moderators))
	}
	if moderators[0].PasswordHash != "" || moderators[0].PasswordHistory != nil || moderators[0].ResetToken != "" {
		t.Fatal("credential material leaked from list projection")
	}
}

func TestActiveRosterOmitsDisabledAccounts(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	registerModerator(t, service, "alice", nil)
	registerModerator(t, service, "bob", nil)

	admin := Actor{Username: "root", Role: "admin", IsAdmin: true}
	if err := service.SetStatus(context.Background(), admin, "bob", entities.StatusDisabled); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	roster, err := service.ActiveModeratorUsernames(context.Background())
	if err != nil {
		t.Fatalf("roster failed: %v", err)
	}
	if len(roster) != 1 || roster[0] != "alice" {
		t.Fatalf("unexpected roster %v", roster)
	}
}

func TestUpdateEmailRejectsDuplicate(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	registerModerator(t, service, "alice", nil)
	registerModerator(t, service, "bob", nil)

	admin := Actor{Username: "root", Role: "admin", IsAdmin: true}
	if err := service.UpdateEmail(context.Background(), admin, "alice", "shared@example.org"); err != nil {
		t.Fatalf("first email update failed: %v", err)
	}
	err := service.UpdateEmail(context.Background(), admin, "bob", "shared@example.org")
	if !errors.Is(err, domainerrors.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestUpdateUsernameRejectsCollision(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	registerModerator(t, service, "alice", nil)
	registerModerator(t, service, "bob", nil)

	admin := Actor{Username: "root", Role: "admin", IsAdmin: true}
	err := service.UpdateUsername(context.Background(), admin, "bob", "alice")
	if !errors.Is(err, domainerrors.ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}
	if err := service.UpdateUsername(context.Background(), admin, "bob", "robert"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if _, err := store.GetModerator(context.Background(), "robert"); err != nil {
		t.Fatalf("renamed account missing: %v", err)
	}
}

func TestManagementFlagsRequireElevatedActor(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	registerModerator(t, service, "target", nil)

	lowly := Actor{Username: "pleb", Role: "lmod"}
	if err := service.SetTrainingManager(context.Background(), lowly, "target", true); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := service.SetLeaders(context.Background(), lowly, "target", true, false); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	mmod := Actor{Username: "manager", Role: "mmod"}
	if err := service.SetTrainingManager(context.Background(), mmod, "target", true); err != nil {
		t.Fatalf("set training manager failed: %v", err)
	}
	if err := service.SetApplicationViewer(context.Background(), mmod, "target", false); err != nil {
		t.Fatalf("set viewer failed: %v", err)
	}
	moderator, _ := store.GetModerator(context.Background(), "target")
	if !moderator.IsTrainingManager || moderator.CanViewApplications {
		t.Fatalf("flags not applied: %+v", moderator)
	}
}
