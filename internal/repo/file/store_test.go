package file_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/avelazco/contactdeck/internal/domain/bookmark"
	"github.com/avelazco/contactdeck/internal/domain/collection"
	"github.com/avelazco/contactdeck/internal/domain/profile"
	"github.com/avelazco/contactdeck/internal/domain/user"
	"github.com/avelazco/contactdeck/internal/repo/file"
)

func newStore(t *testing.T) *file.Store {
	t.Helper()

	s, err := file.Open("", nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func strptr(s string) *string { return &s }

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "jane@example.com", "hash-1", "Jane")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err = s.CreateUser(ctx, "jane@example.com", "hash-2", "Other Jane")
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("got %v, want user.ErrEmailTaken", err)
	}

	// email match is case-sensitive: a different casing is a new account
	_, err = s.CreateUser(ctx, "Jane@example.com", "hash-3", "Jane Upper")
	if err != nil {
		t.Fatalf("case-variant create: %v", err)
	}
}

func TestProfilesOwnerScoping(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	mine, err := s.CreateProfile(ctx, "owner-1", profile.CreateRequest{Name: "Jane"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.CreateProfile(ctx, "owner-2", profile.CreateRequest{Name: "Someone Else"}); err != nil {
		t.Fatalf("create other: %v", err)
	}

	list, err := s.ListProfiles(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(list) != 1 || list[0].ID != mine.ID {
		t.Fatalf("list leaked entities: %+v", list)
	}

	// cross-owner access must look like the entity does not exist
	if _, err := s.UpdateProfile(ctx, "owner-2", mine.ID, profile.UpdateRequest{Name: strptr("x")}); !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("cross-owner update: got %v, want profile.ErrNotFound", err)
	}

	if err := s.DeleteProfile(ctx, "owner-2", mine.ID); !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("cross-owner delete: got %v, want profile.ErrNotFound", err)
	}
}

func TestUpdateProfilePatchMerge(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	p, err := s.CreateProfile(ctx, "owner-1", profile.CreateRequest{
		Name:         "Jane",
		Role:         "Engineer",
		Organization: "Acme",
		Tags:         []string{"go", "infra"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.UpdateProfile(ctx, "owner-1", p.ID, profile.UpdateRequest{Role: strptr("Staff Engineer")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if got.Role != "Staff Engineer" {
		t.Errorf("patched field not applied: %q", got.Role)
	}

	if got.Name != "Jane" || got.Organization != "Acme" || len(got.Tags) != 2 {
		t.Errorf("unpatched fields lost: %+v", got)
	}
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	ctx := context.Background()

	s, err := file.Open(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	u, err := s.CreateUser(ctx, "jane@example.com", "bcrypt-hash", "Jane")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	p, err := s.CreateProfile(ctx, u.ID, profile.CreateRequest{Name: "Contact"})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}

	if _, err := s.CreateCollection(ctx, u.ID, collection.CreateRequest{Name: "Friends", MemberIDs: []string{p.ID}}); err != nil {
		t.Fatalf("create collection: %v", err)
	}

	if _, err := s.CreateBookmark(ctx, u.ID, bookmark.CreateRequest{Title: "Docs", URL: "https://example.com"}); err != nil {
		t.Fatalf("create bookmark: %v", err)
	}

	reopened, err := file.Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	back, err := reopened.GetUserByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("get user after reopen: %v", err)
	}

	if back.PasswordHash != "bcrypt-hash" {
		t.Errorf("password hash lost across reopen: %q", back.PasswordHash)
	}

	profiles, err := reopened.ListProfiles(ctx, u.ID)
	if err != nil || len(profiles) != 1 {
		t.Fatalf("profiles after reopen: %v %v", profiles, err)
	}

	colls, err := reopened.ListCollections(ctx, u.ID)
	if err != nil || len(colls) != 1 {
		t.Fatalf("collections after reopen: %v %v", colls, err)
	}

	if !colls[0].HasMember(p.ID) {
		t.Errorf("membership lost across reopen: %+v", colls[0])
	}

	bms, err := reopened.ListBookmarks(ctx, u.ID)
	if err != nil || len(bms) != 1 {
		t.Fatalf("bookmarks after reopen: %v %v", bms, err)
	}
}

func TestApplyMembershipReconciles(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	const owner = "owner-1"

	p, err := s.CreateProfile(ctx, owner, profile.CreateRequest{Name: "Jane"})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}

	a, _ := s.CreateCollection(ctx, owner, collection.CreateRequest{Name: "A", MemberIDs: []string{p.ID}})
	b, _ := s.CreateCollection(ctx, owner, collection.CreateRequest{Name: "B", MemberIDs: []string{p.ID}})
	c, _ := s.CreateCollection(ctx, owner, collection.CreateRequest{Name: "C"})

	// current {A,B}, target {B,C}
	after, err := s.ApplyMembership(ctx, owner, p.ID, []string{b.ID, c.ID})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	want := map[string]bool{a.ID: false, b.ID: true, c.ID: true}

	for _, coll := range after {
		if coll.HasMember(p.ID) != want[coll.ID] {
			t.Errorf("collection %s membership = %v, want %v", coll.Name, coll.HasMember(p.ID), want[coll.ID])
		}

		// untouched collection keeps its timestamp
		if coll.ID == b.ID && !coll.UpdatedAt.Equal(b.UpdatedAt) {
			t.Errorf("collection B was rewritten without a membership change")
		}
	}

	// reconcile is idempotent: a second identical call changes nothing
	again, err := s.ApplyMembership(ctx, owner, p.ID, []string{b.ID, c.ID})
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}

	for _, coll := range again {
		if coll.HasMember(p.ID) != want[coll.ID] {
			t.Errorf("idempotence broken for %s", coll.Name)
		}
		if coll.ID == c.ID && len(coll.MemberIDs) != 1 {
			t.Errorf("double-add on %s: %v", coll.Name, coll.MemberIDs)
		}
	}
}

func TestApplyMembershipFailsWholesale(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	const owner = "owner-1"

	p, _ := s.CreateProfile(ctx, owner, profile.CreateRequest{Name: "Jane"})
	a, _ := s.CreateCollection(ctx, owner, collection.CreateRequest{Name: "A"})

	// unknown target id fails before anything is applied
	_, err := s.ApplyMembership(ctx, owner, p.ID, []string{a.ID, "missing-collection"})
	if !errors.Is(err, collection.ErrNotFound) {
		t.Fatalf("got %v, want collection.ErrNotFound", err)
	}

	colls, _ := s.ListCollections(ctx, owner)
	if colls[0].HasMember(p.ID) {
		t.Fatalf("partial mutation applied: %+v", colls[0])
	}

	// unknown profile
	_, err = s.ApplyMembership(ctx, owner, "missing-profile", []string{a.ID})
	if !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("got %v, want profile.ErrNotFound", err)
	}

	// foreign owner cannot see the profile either
	_, err = s.ApplyMembership(ctx, "owner-2", p.ID, nil)
	if !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("cross-owner reconcile: got %v, want profile.ErrNotFound", err)
	}
}
