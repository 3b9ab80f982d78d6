package handler

import (
	"time"

	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// ShieldOpsHandler serves the scheduler-facing endpoints behind the
// service key: the inactivity sweep, the protocol checker and the
// system status counts.
type ShieldOpsHandler struct {
	monitor  *usecase.InactivityMonitor
	protocol *usecase.ProtocolChecker
	status   *usecase.SystemStatusService
}

func NewShieldOpsHandler(monitor *usecase.InactivityMonitor, protocol *usecase.ProtocolChecker, status *usecase.SystemStatusService) *ShieldOpsHandler {
	return &ShieldOpsHandler{monitor: monitor, protocol: protocol, status: status}
}

func (h *ShieldOpsHandler) CheckInactivity(c *gin.Context) {
	sweep, err := h.monitor.Sweep(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]dto.InactivityResult, 0, len(sweep.Results))
	for _, r := range sweep.Results {
		results = append(results, dto.InactivityResult{
			UserID:                 r.UserID,
			LastSignIn:             r.LastSignIn.Format(time.RFC3339),
			DaysSinceLastSignIn:    r.DaysSinceLastSignIn,
			InactivityPeriodMonths: r.InactivityPeriodMonths,
			ShouldNotify:           r.ShouldNotify,
			GuardianEmails:         r.GuardianEmails,
		})
	}

	utils.Success(c, dto.CheckInactivityResponse{
		Success:                true,
		Checked:                sweep.Checked,
		NotificationsTriggered: sweep.NotificationsTriggered,
		Results:                results,
	})
}

func (h *ShieldOpsHandler) ProtocolChecker(c *gin.Context) {
	result, err := h.protocol.Run(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ProtocolCheckerResponse{
		Message:   "Protocol check completed",
		Processed: result.Processed,
		Triggered: result.Triggered,
	})
}

func (h *ShieldOpsHandler) SystemStatus(c *gin.Context) {
	snapshot, err := h.status.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, snapshot)
}
