package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intellibiz-backend/utils"
)

func (h *Handler) GetAnalytics(c *gin.Context) {
	summary, err := h.svc.Analytics.Summary(c.Request.Context(), actor(c))
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetReminderLogs lists SMS reminder deliveries, optionally ?status=sent|failed.
func (h *Handler) GetReminderLogs(c *gin.Context) {
	logs, err := h.svc.Analytics.ReminderLogs(c.Request.Context(), actor(c), c.Query("status"))
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
