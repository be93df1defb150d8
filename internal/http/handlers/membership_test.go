package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/avelazco/contactdeck/internal/domain/collection"
	"github.com/avelazco/contactdeck/internal/domain/profile"
	"github.com/avelazco/contactdeck/internal/membership"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeMembershipStore struct {
	gotProfileID string
	gotTargets   []string
	result       []collection.Collection
	err          error
}

func (s *fakeMembershipStore) ApplyMembership(ctx context.Context, ownerID, profileID string, targetIDs []string) ([]collection.Collection, error) {
	s.gotProfileID = profileID
	s.gotTargets = targetIDs
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newMembershipTestRouter(store *fakeMembershipStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewMembershipHandler(store, slog.New(slog.DiscardHandler))

	r := gin.New()
	api := r.Group("/api", fakeIdentity("owner-1"))
	api.PUT("/profiles/:id/collections", h.SetCollections)

	return r
}

func TestSetCollections(t *testing.T) {
	colA := uuid.NewString()
	colB := uuid.NewString()

	store := &fakeMembershipStore{
		result: []collection.Collection{
			{ID: colA, OwnerID: "owner-1", Name: "Mentors", MemberIDs: []string{"p1"}},
			{ID: colB, OwnerID: "owner-1", Name: "Clients", MemberIDs: []string{}},
		},
	}
	r := newMembershipTestRouter(store)

	rec := doJSON(t, r, http.MethodPut, "/api/profiles/p1/collections",
		`{"collectionIds":["`+colA+`"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}

	if store.gotProfileID != "p1" {
		t.Errorf("profile id = %q, want p1", store.gotProfileID)
	}
	if len(store.gotTargets) != 1 || store.gotTargets[0] != colA {
		t.Errorf("targets = %v", store.gotTargets)
	}

	var resp struct {
		Collections []collection.Collection `json:"collections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Collections) != 2 {
		t.Fatalf("expected both collections in the response, got %d", len(resp.Collections))
	}
}

func TestSetCollectionsErrors(t *testing.T) {
	validID := uuid.NewString()

	tests := []struct {
		name       string
		body       string
		storeErr   error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "profile_not_found",
			body:       `{"collectionIds":[]}`,
			storeErr:   profile.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "collection_not_found",
			body:       `{"collectionIds":["` + validID + `"]}`,
			storeErr:   collection.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "reconcile_failed",
			body:       `{"collectionIds":["` + validID + `"]}`,
			storeErr:   membership.ErrReconcileFailed,
			wantStatus: http.StatusConflict,
			wantCode:   "reconciliation_failed",
		},
		{
			name:       "non_uuid_id",
			body:       `{"collectionIds":["not-a-uuid"]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_failed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeMembershipStore{err: tc.storeErr}
			r := newMembershipTestRouter(store)

			rec := doJSON(t, r, http.MethodPut, "/api/profiles/p1/collections", tc.body)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if got := errCode(t, rec); got != tc.wantCode {
				t.Errorf("error code = %q, want %q", got, tc.wantCode)
			}
		})
	}
}

func TestSetCollectionsEmptyTargetSet(t *testing.T) {
	store := &fakeMembershipStore{result: []collection.Collection{}}
	r := newMembershipTestRouter(store)

	rec := doJSON(t, r, http.MethodPut, "/api/profiles/p1/collections", `{"collectionIds":[]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if len(store.gotTargets) != 0 {
		t.Errorf("targets = %v, want empty", store.gotTargets)
	}
}
