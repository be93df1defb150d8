package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/avelazco/contactdeck/internal/domain/collection"
	"github.com/avelazco/contactdeck/internal/domain/profile"
	"github.com/avelazco/contactdeck/internal/http/middlewares"
	"github.com/avelazco/contactdeck/internal/membership"
	"github.com/gin-gonic/gin"
)

type MembershipStore interface {
	ApplyMembership(ctx context.Context, ownerID, profileID string, targetIDs []string) ([]collection.Collection, error)
}

type MembershipHandler struct {
	store MembershipStore
	log   *slog.Logger
}

func NewMembershipHandler(store MembershipStore, log *slog.Logger) *MembershipHandler {
	return &MembershipHandler{store: store, log: log}
}

type setCollectionsRequest struct {
	// The full desired set; collections not listed lose the profile.
	CollectionIDs []string `json:"collectionIds" binding:"omitempty,dive,uuid4"`
}

// SetCollections replaces a profile's collection memberships in one shot.
func (h *MembershipHandler) SetCollections(c *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		RespondUnAuthorized(c, "Access token required")
		return
	}

	var req setCollectionsRequest
	if !BindJSON(c, &req) {
		return
	}

	cols, err := h.store.ApplyMembership(c.Request.Context(), ownerID, c.Param("id"), req.CollectionIDs)
	if err != nil {
		switch {
		case errors.Is(err, profile.ErrNotFound):
			RespondNotFound(c, "Profile not found")
		case errors.Is(err, collection.ErrNotFound):
			RespondNotFound(c, "Collection not found")
		case errors.Is(err, membership.ErrReconcileFailed):
			RespondConflict(c, "reconciliation_failed", "Could not update collection memberships, no changes were applied")
		default:
			h.log.ErrorContext(c.Request.Context(), "apply membership", "error", err)
			RespondInternal(c)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"collections": cols})
}
