package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intellibiz-backend/services"
	"intellibiz-backend/utils"
)

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.svc.Settings.Get(c.Request.Context())
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var input services.SettingsInput
	if !bindJSON(c, &input) {
		return
	}
	settings, err := h.svc.Settings.Update(c.Request.Context(), actor(c), input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
