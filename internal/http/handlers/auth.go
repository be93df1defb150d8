package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/avelazco/contactdeck/internal/domain/user"
	"github.com/avelazco/contactdeck/internal/http/middlewares"
	"github.com/avelazco/contactdeck/internal/security"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash, name string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	GetUserByID(ctx context.Context, id string) (user.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID, email string) (string, error)
}

type AuthHandler struct {
	users UserStore
	jwt   TokenIssuer
	log   *slog.Logger
}

func NewAuthHandler(users UserStore, jwt TokenIssuer, log *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt, log: log}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSON(c, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "hash password", "error", err)
		RespondInternal(c)
		return
	}

	u, err := h.users.CreateUser(c.Request.Context(), req.Email, hash, req.Name)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondBadRequest(c, "email_taken", "An account with this email already exists")
			return
		}
		h.log.ErrorContext(c.Request.Context(), "create user", "error", err)
		RespondInternal(c)
		return
	}

	token, err := h.jwt.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "issue token", "error", err)
		RespondInternal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": u.Public()})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSON(c, &req) {
		return
	}

	u, err := h.users.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondBadRequest(c, "user_not_found", "No account found with this email")
			return
		}
		h.log.ErrorContext(c.Request.Context(), "lookup user", "error", err)
		RespondInternal(c)
		return
	}

	if err := security.CheckPassword(u.PasswordHash, req.Password); err != nil {
		RespondBadRequest(c, "invalid_password", "Incorrect password")
		return
	}

	token, err := h.jwt.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "issue token", "error", err)
		RespondInternal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": u.Public()})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(c)
	if !ok {
		RespondUnAuthorized(c, "Access token required")
		return
	}

	u, err := h.users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(c, "User not found")
			return
		}
		h.log.ErrorContext(c.Request.Context(), "lookup user", "error", err)
		RespondInternal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u.Public()})
}
