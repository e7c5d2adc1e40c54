package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "pomodoro/timer/internal/errors"
	"pomodoro/timer/internal/model"
	"pomodoro/timer/internal/service"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
}

// Minutes stay untyped so "25", 25 and "abc" all reach the clamping logic.
type durationsRequest struct {
	WorkMinutes  interface{} `json:"workMinutes"`
	BreakMinutes interface{} `json:"breakMinutes"`
}

type presentationRequest struct {
	UseGradient              *bool  `json:"useGradient"`
	BackgroundColor          string `json:"backgroundColor"`
	TextColor                string `json:"textColor"`
	GradientAnimationSeconds int    `json:"gradientAnimationSeconds"`
	Gradient                 string `json:"gradient"`
}

func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.settingsService.Get()})
}

func (h *SettingsHandler) Gradients(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"gradients": h.settingsService.Gradients()})
}

func (h *SettingsHandler) UpdateDurations(c *gin.Context) {
	var req durationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.InvalidJSON())
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": h.settingsService.UpdateDurations(req.WorkMinutes, req.BreakMinutes)})
}

func (h *SettingsHandler) UpdatePresentation(c *gin.Context) {
	var req presentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.InvalidJSON())
		return
	}

	current := h.settingsService.Get().Presentation
	presentation := model.Presentation{
		UseGradient:              current.UseGradient,
		BackgroundColor:          req.BackgroundColor,
		TextColor:                req.TextColor,
		GradientAnimationSeconds: req.GradientAnimationSeconds,
		Gradient:                 req.Gradient,
	}
	if req.UseGradient != nil {
		presentation.UseGradient = *req.UseGradient
	}
	c.JSON(http.StatusOK, gin.H{"settings": h.settingsService.UpdatePresentation(presentation)})
}

func (h *SettingsHandler) NextGradient(c *gin.Context) {
	c.JSON(http.StatusOK, h.settingsService.NextGradient())
}
