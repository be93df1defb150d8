package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/avelazco/contactdeck/internal/domain/collection"
	"github.com/avelazco/contactdeck/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type CollectionStore interface {
	ListCollections(ctx context.Context, ownerID string) ([]collection.Collection, error)
	CreateCollection(ctx context.Context, ownerID string, req collection.CreateRequest) (collection.Collection, error)
	UpdateCollection(ctx context.Context, ownerID, id string, patch collection.UpdateRequest) (collection.Collection, error)
	DeleteCollection(ctx context.Context, ownerID, id string) error
}

type CollectionsHandler struct {
	store CollectionStore
	log   *slog.Logger
}

func NewCollectionsHandler(store CollectionStore, log *slog.Logger) *CollectionsHandler {
	return &CollectionsHandler{store: store, log: log}
}

func (h *CollectionsHandler) List(c *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		RespondUnAuthorized(c, "Access token required")
		return
	}

	list, err := h.store.ListCollections(c.Request.Context(), ownerID)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "list collections", "error", err)
		RespondInternal(c)
		return
	}

	RespondJSONWithETag(c, http.StatusOK, list)
}

func (h *CollectionsHandler) Create(c *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		RespondUnAuthorized(c, "Access token required")
		return
	}

	var req collection.CreateRequest
	if !BindJSON(c, &req) {
		return
	}

	col, err := h.store.CreateCollection(c.Request.Context(), ownerID, req)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "create collection", "error", err)
		RespondInternal(c)
		return
	}

	c.JSON(http.StatusOK, col)
}

func (h *CollectionsHandler) Update(c *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		RespondUnAuthorized(c, "Access token required")
		return
	}

	var patch collection.UpdateRequest
	if !BindJSON(c, &patch) {
		return
	}

	col, err := h.store.UpdateCollection(c.Request.Context(), ownerID, c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			RespondNotFound(c, "Collection not found")
			return
		}
		h.log.ErrorContext(c.Request.Context(), "update collection", "error", err)
		RespondInternal(c)
		return
	}

	c.JSON(http.StatusOK, col)
}

func (h *CollectionsHandler) Delete(c *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		RespondUnAuthorized(c, "Access token required")
		return
	}

	if err := h.store.DeleteCollection(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			RespondNotFound(c, "Collection not found")
			return
		}
		h.log.ErrorContext(c.Request.Context(), "delete collection", "error", err)
		RespondInternal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
