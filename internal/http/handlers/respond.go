package handlers

import (
	"net/http"

	"github.com/avelazco/contactdeck/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func RespondError(c *gin.Context, status int, code, message string) {
	reqID := c.GetString(middlewares.CtxRequestID)

	c.AbortWithStatusJSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: reqID,
		},
	})
}

func RespondBadRequest(c *gin.Context, code, message string) {
	RespondError(c, http.StatusBadRequest, code, message)
}

func RespondUnAuthorized(c *gin.Context, message string) {
	RespondError(c, http.StatusUnauthorized, "unauthorized", message)
}

func RespondForbidden(c *gin.Context, code, message string) {
	RespondError(c, http.StatusForbidden, code, message)
}

func RespondNotFound(c *gin.Context, message string) {
	RespondError(c, http.StatusNotFound, "not_found", message)
}

func RespondConflict(c *gin.Context, code, message string) {
	RespondError(c, http.StatusConflict, code, message)
}

func RespondInternal(c *gin.Context) {
	RespondError(c, http.StatusInternalServerError, "internal_error", "Something went wrong")
}
