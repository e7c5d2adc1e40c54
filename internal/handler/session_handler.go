package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "pomodoro/timer/internal/errors"
	"pomodoro/timer/internal/service"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

type descriptionRequest struct {
	Description *string `json:"description"`
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) List(c *gin.Context) {
	limit := 0
	if rawLimit := c.Query("limit"); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil {
			limit = parsed
		}
	}

	sessions, apiErr := h.sessionService.List(c.Request.Context(), limit)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *SessionHandler) Get(c *gin.Context) {
	session, apiErr := h.sessionService.Get(c.Request.Context(), c.Param("id"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *SessionHandler) UpdateDescription(c *gin.Context) {
	var req descriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.InvalidJSON())
		return
	}
	if req.Description == nil {
		writeError(c, apperrors.BadRequest("invalid_description", "description is required"))
		return
	}

	session, apiErr := h.sessionService.UpdateDescription(c.Request.Context(), c.Param("id"), *req.Description)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}
