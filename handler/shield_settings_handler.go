package handler

import (
	"time"

	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// ShieldSettingsHandler serves the owning user's shield configuration
// and the resumed-activity signal.
type ShieldSettingsHandler struct {
	settings *usecase.SettingsService
	activity *usecase.ActivityRecorder
}

func NewShieldSettingsHandler(settings *usecase.SettingsService, activity *usecase.ActivityRecorder) *ShieldSettingsHandler {
	return &ShieldSettingsHandler{settings: settings, activity: activity}
}

func (h *ShieldSettingsHandler) GetSettings(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	settings, err := h.settings.Get(c.Request.Context(), userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, settings)
}

func (h *ShieldSettingsHandler) UpdateSettings(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req dto.ShieldSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), userID.(string), req.IsShieldEnabled, req.InactivityPeriodMonths, req.RequiredGuardians)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, settings)
}

// RecordActivity refreshes last_activity_at and resets the shield when
// an activation was underway.
func (h *ShieldSettingsHandler) RecordActivity(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	status, err := h.activity.RecordActivity(c.Request.Context(), userID.(string), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{"shield_status": status})
}
