package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/avelazco/contactdeck/internal/cache"
	"github.com/avelazco/contactdeck/internal/domain/profile"
	"github.com/avelazco/contactdeck/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type ProfileStore interface {
	ListProfiles(ctx context.Context, ownerID string) ([]profile.Profile, error)
	CreateProfile(ctx context.Context, ownerID string, req profile.CreateRequest) (profile.Profile, error)
	UpdateProfile(ctx context.Context, ownerID, id string, patch profile.UpdateRequest) (profile.Profile, error)
	DeleteProfile(ctx context.Context, ownerID, id string) error
}

type ProfilesHandler struct {
	store ProfileStore
	cache cache.Cache
	log   *slog.Logger
}

func NewProfilesHandler(store ProfileStore, c cache.Cache, log *slog.Logger) *ProfilesHandler {
	return &ProfilesHandler{store: store, cache: c, log: log}
}

func (h *ProfilesHandler) List(c *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		RespondUnAuthorized(c, "Access token required")
		return
	}

	if h.cache != nil {
		if body, ok := h.cache.Get(c.Request.Context(), cache.ProfileListKey(ownerID)); ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			return
		}
	}

	list, err := h.store.ListProfiles(c.Request.Context(), ownerID)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "list profiles", "error", err)
		RespondInternal(c)
		return
	}

	if h.cache != nil {
		if body, err := jsonBody(list); err == nil {
			h.cache.Set(c.Request.Context(), cache.ProfileListKey(ownerID), body)
		}
	}

	RespondJSONWithETag(c, http.StatusOK, list)
}

func (h *ProfilesHandler) Create(c *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		RespondUnAuthorized(c, "Access token required")
		return
	}

	var req profile.CreateRequest
	if !BindJSON(c, &req) {
		return
	}

	p, err := h.store.CreateProfile(c.Request.Context(), ownerID, req)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "create profile", "error", err)
		RespondInternal(c)
		return
	}

	h.invalidate(c, ownerID)

	c.JSON(http.StatusOK, p)
}

func (h *ProfilesHandler) Update(c *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		RespondUnAuthorized(c, "Access token required")
		return
	}

	var patch profile.UpdateRequest
	if !BindJSON(c, &patch) {
		return
	}

	p, err := h.store.UpdateProfile(c.Request.Context(), ownerID, c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			RespondNotFound(c, "Profile not found")
			return
		}
		h.log.ErrorContext(c.Request.Context(), "update profile", "error", err)
		RespondInternal(c)
		return
	}

	h.invalidate(c, ownerID)

	c.JSON(http.StatusOK, p)
}

func (h *ProfilesHandler) Delete(c *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		RespondUnAuthorized(c, "Access token required")
		return
	}

	if err := h.store.DeleteProfile(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			RespondNotFound(c, "Profile not found")
			return
		}
		h.log.ErrorContext(c.Request.Context(), "delete profile", "error", err)
		RespondInternal(c)
		return
	}

	h.invalidate(c, ownerID)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ProfilesHandler) invalidate(c *gin.Context, ownerID string) {
	if h.cache != nil {
		h.cache.Delete(c.Request.Context(), cache.ProfileListKey(ownerID))
	}
}
