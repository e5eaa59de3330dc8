// controllers/service.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intellibiz-backend/services"
	"intellibiz-backend/utils"
)

func (h *Handler) CreateService(c *gin.Context) {
	var input services.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	svc, err := h.svc.Catalog.Create(c.Request.Context(), actor(c), input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// GetServices lists active services, optionally for ?businessId=.
func (h *Handler) GetServices(c *gin.Context) {
	businessID, ok := queryID(c, "businessId")
	if !ok {
		return
	}
	list, err := h.svc.Catalog.List(c.Request.Context(), actor(c), businessID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetService(c *gin.Context) {
	id, ok := pathID(c, "id", "service")
	if !ok {
		return
	}
	svc, err := h.svc.Catalog.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, ok := pathID(c, "id", "service")
	if !ok {
		return
	}
	var input services.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	svc, err := h.svc.Catalog.Update(c.Request.Context(), actor(c), id, input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *Handler) DeleteService(c *gin.Context) {
	id, ok := pathID(c, "id", "service")
	if !ok {
		return
	}
	if err := h.svc.Catalog.Delete(c.Request.Context(), actor(c), id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
