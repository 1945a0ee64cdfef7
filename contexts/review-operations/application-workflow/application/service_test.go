package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	roleauthority "modpanel/contexts/identity-access/role-authority"

	"modpanel/contexts/review-operations/application-workflow/adapters/memory"
	"modpanel/contexts/review-operations/application-workflow/domain/entities"
	domainerrors "modpanel/contexts/review-operations/application-workflow/domain/errors"
)

func newTestService(store *memory.Store) Service {
	return Service{
		Repo:  store,
		Roles: roleauthority.Default(),
		Clock: store,
		IDGen: store,
	}
}

func sampleSubmission(name string) entities.Submission {
	return entities.Submission{
		Name:          name,
		Email:         strings.ToLower(name) + "@example.org",
		Position:      "discord moderator",
		DiscordHandle: name + "#0001",
		IngameName:    name + "TW",
		Age:           24,
		Country:       "Portugal",
		Server:        "s1337",
	}
}

func submitApplication(t *testing.T, service Service, name string) entities.Application {
	t.Helper()
	application, err := service.Submit(context.Background(), sampleSubmission(name))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return application
}

var (
	reviewer        = Actor{Username: "manager", Role: "mmod"}
	trainingManager = Actor{Username: "trainer", Role: "mmod", IsTrainingManager: true}
	admin           = Actor{Username: "root", Role: "admin", IsAdmin: true}
	plainModerator  = Actor{Username: "mod1", Role: "moderator"}
)

func TestSubmitStartsAwaitingReview(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	application := submitApplication(t, service, "Ana")
	if application.Status != entities.StatusAwaitingReview {
		t.Fatalf("expected awaiting_review, got %s", application.Status)
	}
	if application.ID == "" {
		t.Fatal("expected an id")
	}
}

func TestSubmitRefusedWhileIntakeClosed(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	if _, err := service.UpdateIntakeSettings(context.Background(), admin, false); err != nil {
		t.Fatalf("close intake failed: %v", err)
	}
	_, err := service.Submit(context.Background(), sampleSubmission("Bea"))
	if !errors.Is(err, domainerrors.ErrIntakeDisabled) {
		t.Fatalf("expected intake disabled, got %v", err)
	}

	if _, err := service.UpdateIntakeSettings(context.Background(), admin, true); err != nil {
		t.Fatalf("reopen intake failed: %v", err)
	}
	if _, err := service.Submit(context.Background(), sampleSubmission("Bea")); err != nil {
		t.Fatalf("submit after reopen failed: %v", err)
	}
}

func TestIntakeSettingsGate(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	_, err := service.UpdateIntakeSettings(context.Background(), plainModerator, false)
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestFirstVoteMovesToPendingExactlyOnce(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	application := submitApplication(t, service, "Cleo")

	if err := service.CastVote(context.Background(), plainModerator, application.ID, entities.VoteApprove); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	got, _ := store.GetApplication(context.Background(), application.ID)
	if got.Status != entities.StatusPending {
		t.Fatalf("expected pending after first vote, got %s", got.Status)
	}

	// A later explicit transition is not clobbered back to pending by more
	// votes.
	if _, err := service.ChangeStatus(context.Background(), reviewer, application.ID, entities.StatusWaiting, "short on slots"); err != nil {
		t.Fatalf("status change failed: %v", err)
	}
	other := Actor{Username: "mod2", Role: "moderator"}
	if err := service.CastVote(context.Background(), other, application.ID, entities.VoteReject); err != nil {
		t.Fatalf("second vote failed: %v", err)
	}
	got, _ = store.GetApplication(context.Background(), application.ID)
	if got.Status != entities.StatusWaiting {
		t.Fatalf("vote must not change a reviewed status, got %s", got.Status)
	}
}

func TestRevoteReplacesInPlace(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	application := submitApplication(t, service, "Dino")

	if err := service.CastVote(context.Background(), plainModerator, application.ID, entities.VoteApprove); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if err := service.CastVote(context.Background(), plainModerator, application.ID, entities.VoteReject); err != nil {
		t.Fatalf("revote failed: %v", err)
	}
	got, _ := store.GetApplication(context.Background(), application.ID)
	if len(got.Votes) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(got.Votes))
	}
	if got.Votes[0].Vote != entities.VoteReject {
		t.Fatalf("expected replaced vote reject, got %s", got.Votes[0].Vote)
	}
}

func TestConcurrentVotesKeepOneEntryPerModerator(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	application := submitApplication(t, service, "Edda")

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			actor := Actor{Username: fmt.Sprintf("mod-%d", i%8), Role: "moderator"}
			value := entities.VoteApprove
			if i%2 == 1 {
				value = entities.VoteReject
			}
			if err := service.CastVote(context.Background(), actor, application.ID, value); err != nil {
				t.Errorf("vote failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := store.GetApplication(context.Background(), application.ID)
	if len(got.Votes) != 8 {
		t.Fatalf("expected 8 ledger entries, got %d", len(got.Votes))
	}
	seen := map[string]bool{}
	for _, vote := range got.Votes {
		if seen[vote.Moderator] {
			t.Fatalf("duplicate ledger entry for %s", vote.Moderator)
		}
		seen[vote.Moderator] = true
	}
	if got.Status != entities.StatusPending {
		t.Fatalf("expected pending, got %s", got.Status)
	}
}

func TestCastVoteRejectsUnknownValue(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	application := submitApplication(t, service, "Fynn")

	err := service.CastVote(context.Background(), plainModerator, application.ID, "abstain")
	if !errors.Is(err, domainerrors.ErrInvalidVote) {
		t.Fatalf("expected invalid vote, got %v", err)
	}
}

func TestChangeStatusRequiresComment(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	application := submitApplication(t, service, "Gita")

	_, err := service.ChangeStatus(context.Background(), reviewer, application.ID, entities.StatusApproved, "   ")
	if !errors.Is(err, domainerrors.ErrEmptyComment) {
		t.Fatalf("expected empty comment rejection, got %v", err)
	}
	got, _ := store.GetApplication(context.Background(), application.ID)
	if got.Status != entities.StatusAwaitingReview {
		t.Fatalf("state mutated despite rejected request: %s", got.Status)
	}
}

func TestChangeStatusGateAndLedger(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	application := submitApplication(t, service, "Hana")

	_, err := service.ChangeStatus(context.Background(), plainModerator, application.ID, entities.StatusApproved, "lgtm")
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for plain moderator, got %v", err)
	}

	updated, err := service.ChangeStatus(context.Background(), reviewer, application.ID, entities.StatusApproved, "strong answers")
	if err != nil {
		t.Fatalf("status change failed: %v", err)
	}
	if updated.Status != entities.StatusApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}
	if updated.ReviewedBy != reviewer.Username || updated.ReviewedAt == nil {
		t.Fatal("reviewed stamp missing")
	}
	if len(updated.Comments) != 1 {
		t.Fatalf("expected synthesized ledger entry, got %d comments", len(updated.Comments))
	}
	want := "[STATUS CHANGE: AWAITING_REVIEW → APPROVED] strong answers"
	if updated.Comments[0].Comment != want {
		t.Fatalf("unexpected ledger entry %q", updated.Comments[0].Comment)
	}

	logs, err := service.ListAuditLogs(context.Background(), reviewer)
	if err != nil {
		t.Fatalf("audit list failed: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != entities.ActionStatusChanged {
		t.Fatalf("expected one status_changed audit entry, got %+v", logs)
	}
	if logs[0].OldStatus != entities.StatusAwaitingReview || logs[0].NewStatus != entities.StatusApproved {
		t.Fatalf("audit transition wrong: %+v", logs[0])
	}
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	application := submitApplication(t, service, "Iver")

	_, err := service.ChangeStatus(context.Background(), reviewer, application.ID, "on_hold", "why not")
	if !errors.Is(err, domainerrors.ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
}

func TestTeamApprovalFlagsIndependentOfStatus(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	application := submitApplication(t, service, "Jara")

	discordLead := Actor{Username: "dlead", Role: "moderator", IsDiscordLeader: true}
	ingameLead := Actor{Username: "glead", Role: "moderator", IsInGameLeader: true}

	if err := service.TeamApprove(context.Background(), discordLead, application.ID, entities.ApprovalDiscord, "active on the server"); err != nil {
		t.Fatalf("discord approve failed: %v", err)
	}
	if err := service.TeamApprove(context.Background(), ingameLead, application.ID, entities.ApprovalInGame, "high level account"); err != nil {
		t.Fatalf("in-game approve failed: %v", err)
	}

	got, _ := store.GetApplication(context.Background(), application.ID)
	if !got.DiscordApproved || got.DiscordApprovedBy != "dlead" {
		t.Fatalf("discord flag wrong: %+v", got)
	}
	if !got.InGameApproved || got.InGameApprovedBy != "glead" {
		t.Fatalf("in-game flag wrong: %+v", got)
	}
	if got.Status != entities.StatusAwaitingReview {
		t.Fatalf("approval flags must not touch status, got %s", got.Status)
	}
	if len(got.Comments) != 2 {
		t.Fatalf("expected two tagged comments, got %d", len(got.Comments))
	}
	if !strings.HasPrefix(got.Comments[0].Comment, "[DISCORD TEAM APPROVAL] ") {
		t.Fatalf("missing discord tag: %q", got.Comments[0].Comment)
	}
	if !strings.HasPrefix(got.Comments[1].Comment, "[IN-GAME TEAM APPROVAL] ") {
		t.Fatalf("missing in-game tag: %q", got.Comments[1].Comment)
	}

	// Unapprove clears flag and approver without a comment.
	if err := service.TeamUnapprove(context.Background(), discordLead, application.ID, entities.ApprovalDiscord); err != nil {
		t.Fatalf("unapprove failed: %v", err)
	}
	got, _ = store.GetApplication(context.Background(), application.ID)
	if got.DiscordApproved || got.DiscordApprovedBy != "" {
		t.Fatalf("discord flag not cleared: %+v", got)
	}
	if len(got.Comments) != 2 {
		t.Fatalf("unapprove must not add comments, got %d", len(got.Comments))
	}
}

func TestTeamApproveGates(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	application := submitApplication(t, service, "Kiri")

	discordLead := Actor{Username: "dlead", Role: "moderator", IsDiscordLeader: true}
	if err := service.TeamApprove(context.Background(), discordLead, application.ID, entities.ApprovalInGame, "nice"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("discord lead must not set the in-game flag, got %v", err)
	}
	if err := service.TeamApprove(context.Background(), discordLead, application.ID, entities.ApprovalDiscord, "  "); !errors.Is(err, domainerrors.ErrEmptyComment) {
		t.Fatalf("expected empty comment rejection, got %v", err)
	}
	if err := service.TeamApprove(context.Background(), admin, application.ID, entities.ApprovalInGame, "admin override"); err != nil {
		t.Fatalf("admin approval failed: %v", err)
	}
	if err := service.TeamApprove(context.Background(), admin, application.ID, "voice", "x"); !errors.Is(err, domainerrors.ErrInvalidApprovalType) {
		t.Fatalf("expected invalid approval type, got %v", err)
	}
}

func TestGetRecordsViewerOnce(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	application := submitApplication(t, service, "Lena")

	for i := 0; i < 3; i++ {
		if _, err := service.Get(context.Background(), plainModerator, application.ID); err != nil {
			t.Fatalf("get failed: %v", err)
		}
	}
	got, _ := store.GetApplication(context.Background(), application.ID)
	if len(got.ViewedBy) != 1 || got.ViewedBy[0] != plainModerator.Username {
		t.Fatalf("unexpected viewed_by %v", got.ViewedBy)
	}
}

func TestNameShieldingForNonTrainingManagers(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	application := submitApplication(t, service, "Mara")

	seen, err := service.Get(context.Background(), plainModerator, application.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if seen.Name != entities.HiddenApplicantName {
		t.Fatalf("name not shielded: %q", seen.Name)
	}
	if seen.Email != "" {
		t.Fatalf("email not shielded: %q", seen.Email)
	}

	full, err := service.Get(context.Background(), trainingManager, application.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if full.Name != "Mara" || full.Email == "" {
		t.Fatalf("training manager should see the real identity, got %q / %q", full.Name, full.Email)
	}

	listed, err := service.List(context.Background(), plainModerator, "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if listed[0].Name != entities.HiddenApplicantName {
		t.Fatalf("list name not shielded: %q", listed[0].Name)
	}
}

func TestListSearchesHandleAndServer(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	submitApplication(t, service, "Nils")
	submitApplication(t, service, "Olga")

	found, err := service.List(context.Background(), trainingManager, "olga#")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Olga" {
		t.Fatalf("unexpected search result %+v", found)
	}

	bothOnServer, err := service.List(context.Background(), trainingManager, "s1337")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(bothOnServer) != 2 {
		t.Fatalf("expected both applications on server search, got %d", len(bothOnServer))
	}
}

func TestDeleteWritesAuditBeforeRemoval(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	application := submitApplication(t, service, "Pia")

	if err := service.Delete(context.Background(), reviewer, application.ID); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for mmod, got %v", err)
	}
	if err := service.Delete(context.Background(), admin, application.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.GetApplication(context.Background(), application.ID); !errors.Is(err, domainerrors.ErrApplicationNotFound) {
		t.Fatalf("application still present: %v", err)
	}

	logs, err := service.ListAuditLogs(context.Background(), admin)
	if err != nil {
		t.Fatalf("audit list failed: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != entities.ActionDeleted || logs[0].NewStatus != "deleted" {
		t.Fatalf("expected surviving deleted audit entry, got %+v", logs)
	}
	if logs[0].ApplicationName != "Pia" {
		t.Fatalf("audit entry lost applicant name: %+v", logs[0])
	}
}

func TestAuditLogGate(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	_, err := service.ListAuditLogs(context.Background(), plainModerator)
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

type deniedDirectory struct{}

func (deniedDirectory) ViewerFlags(ctx context.Context, username string) (bool, bool, error) {
	return false, false, nil
}

func TestViewerPermissionCheckedThroughDirectory(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	service.Directory = deniedDirectory{}
	application := submitApplication(t, service, "Rosa")

	if _, err := service.List(context.Background(), plainModerator, ""); !errors.Is(err, domainerrors.ErrViewingForbidden) {
		t.Fatalf("expected viewing forbidden, got %v", err)
	}
	if _, err := service.Get(context.Background(), plainModerator, application.ID); !errors.Is(err, domainerrors.ErrViewingForbidden) {
		t.Fatalf("expected viewing forbidden, got %v", err)
	}
}
