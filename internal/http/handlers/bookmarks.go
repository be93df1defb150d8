package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/avelazco/contactdeck/internal/domain/bookmark"
	"github.com/avelazco/contactdeck/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type BookmarkStore interface {
	ListBookmarks(ctx context.Context, ownerID string) ([]bookmark.Bookmark, error)
	CreateBookmark(ctx context.Context, ownerID string, req bookmark.CreateRequest) (bookmark.Bookmark, error)
	UpdateBookmark(ctx context.Context, ownerID, id string, patch bookmark.UpdateRequest) (bookmark.Bookmark, error)
	DeleteBookmark(ctx context.Context, ownerID, id string) error
}

type BookmarksHandler struct {
	store BookmarkStore
	log   *slog.Logger
}

func NewBookmarksHandler(store BookmarkStore, log *slog.Logger) *BookmarksHandler {
	return &BookmarksHandler{store: store, log: log}
}

func (h *BookmarksHandler) List(c *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		RespondUnAuthorized(c, "Access token required")
		return
	}

	list, err := h.store.ListBookmarks(c.Request.Context(), ownerID)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "list bookmarks", "error", err)
		RespondInternal(c)
		return
	}

	RespondJSONWithETag(c, http.StatusOK, list)
}

func (h *BookmarksHandler) Create(c *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		RespondUnAuthorized(c, "Access token required")
		return
	}

	var req bookmark.CreateRequest
	if !BindJSON(c, &req) {
		return
	}

	b, err := h.store.CreateBookmark(c.Request.Context(), ownerID, req)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "create bookmark", "error", err)
		RespondInternal(c)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *BookmarksHandler) Update(c *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		RespondUnAuthorized(c, "Access token required")
		return
	}

	var patch bookmark.UpdateRequest
	if !BindJSON(c, &patch) {
		return
	}

	b, err := h.store.UpdateBookmark(c.Request.Context(), ownerID, c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, bookmark.ErrNotFound) {
			RespondNotFound(c, "Bookmark not found")
			return
		}
		h.log.ErrorContext(c.Request.Context(), "update bookmark", "error", err)
		RespondInternal(c)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *BookmarksHandler) Delete(c *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		RespondUnAuthorized(c, "Access token required")
		return
	}

	if err := h.store.DeleteBookmark(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		if errors.Is(err, bookmark.ErrNotFound) {
			RespondNotFound(c, "Bookmark not found")
			return
		}
		h.log.ErrorContext(c.Request.Context(), "delete bookmark", "error", err)
		RespondInternal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
