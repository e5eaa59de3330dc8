package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intellibiz-backend/models"
	"intellibiz-backend/services"
	"intellibiz-backend/utils"
)

type OAuthInput struct {
	AccessToken string `json:"accessToken" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var input services.RegisterInput
	if !bindJSON(c, &input) {
		return
	}
	res, err := h.svc.Auth.Register(c.Request.Context(), input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Login(c *gin.Context) {
	var input services.LoginInput
	if !bindJSON(c, &input) {
		return
	}
	res, err := h.svc.Auth.Login(c.Request.Context(), input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// OAuthLogin serves /auth/google and /auth/facebook.
func (h *Handler) OAuthLogin(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input OAuthInput
		if !bindJSON(c, &input) {
			return
		}
		res, err := h.svc.Auth.OAuthLogin(c.Request.Context(), provider, input.AccessToken)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func (h *Handler) GoogleLogin() gin.HandlerFunc   { return h.OAuthLogin(models.ProviderGoogle) }
func (h *Handler) FacebookLogin() gin.HandlerFunc { return h.OAuthLogin(models.ProviderFacebook) }

func (h *Handler) Me(c *gin.Context) {
	user, err := h.svc.Auth.Me(c.Request.Context(), actor(c))
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
