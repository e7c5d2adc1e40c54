package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "pomodoro/timer/internal/errors"
	"pomodoro/timer/internal/service"
)

type TimerHandler struct {
	timerService *service.TimerService
}

type resetRequest struct {
	Phase string `json:"phase"`
}

type draftRequest struct {
	Description string `json:"description"`
}

func NewTimerHandler(timerService *service.TimerService) *TimerHandler {
	return &TimerHandler{timerService: timerService}
}

func (h *TimerHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.timerService.State()})
}

func (h *TimerHandler) Start(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.timerService.Start()})
}

func (h *TimerHandler) Pause(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.timerService.Pause()})
}

func (h *TimerHandler) Toggle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.timerService.Toggle()})
}

func (h *TimerHandler) Reset(c *gin.Context) {
	var req resetRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	state, apiErr := h.timerService.Reset(req.Phase)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (h *TimerHandler) Switch(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.timerService.Switch()})
}

func (h *TimerHandler) SetDraft(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.InvalidJSON())
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.timerService.SetDraft(req.Description)})
}
