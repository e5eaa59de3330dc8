package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intellibiz-backend/services"
	"intellibiz-backend/utils"
)

func (h *Handler) SendMessage(c *gin.Context) {
	var input services.SendInput
	if !bindJSON(c, &input) {
		return
	}
	msg, err := h.svc.Messages.Send(c.Request.Context(), actor(c), input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// GetMessages lists ?box=inbox (default) or ?box=sent.
func (h *Handler) GetMessages(c *gin.Context) {
	list, err := h.svc.Messages.List(c.Request.Context(), actor(c), services.Mailbox(c.Query("box")))
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetConversation(c *gin.Context) {
	other, ok := pathID(c, "userId", "user")
	if !ok {
		return
	}
	list, err := h.svc.Messages.Conversation(c.Request.Context(), actor(c), other)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetUnreadCount(c *gin.Context) {
	n, err := h.svc.Messages.UnreadCount(c.Request.Context(), actor(c))
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *Handler) MarkMessageRead(c *gin.Context) {
	id, ok := pathID(c, "id", "message")
	if !ok {
		return
	}
	msg, err := h.svc.Messages.MarkRead(c.Request.Context(), actor(c), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	id, ok := pathID(c, "id", "message")
	if !ok {
		return
	}
	if err := h.svc.Messages.Delete(c.Request.Context(), actor(c), id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
}
