package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intellibiz-backend/models"
	"intellibiz-backend/services"
	"intellibiz-backend/utils"
)

// GetUsers lists accounts for admins, optionally ?role=.
func (h *Handler) GetUsers(c *gin.Context) {
	role := models.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid role filter")
		return
	}
	users, err := h.svc.Users.List(c.Request.Context(), actor(c), role)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}
	user, err := h.svc.Users.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}
	var input services.UpdateUserInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := h.svc.Users.Update(c.Request.Context(), actor(c), id, input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}
	if err := h.svc.Users.Delete(c.Request.Context(), actor(c), id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
