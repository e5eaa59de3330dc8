package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intellibiz-backend/models"
	"intellibiz-backend/services"
	"intellibiz-backend/utils"
)

type RejectInput struct {
	Reason string `json:"reason"`
}

type VerifyInput struct {
	IsVerified *bool `json:"isVerified"`
}

func (h *Handler) CreateBusiness(c *gin.Context) {
	var input services.BusinessInput
	if !bindJSON(c, &input) {
		return
	}
	business, err := h.svc.Businesses.Submit(c.Request.Context(), actor(c), input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, business)
}

// GetBusinesses supports ?category=&city=&q=, ?ownerId=me and, for admins, ?status=.
func (h *Handler) GetBusinesses(c *gin.Context) {
	q := services.BusinessQuery{
		Category: c.Query("category"),
		City:     c.Query("city"),
		Query:    c.Query("q"),
		Status:   models.BusinessStatus(c.Query("status")),
		Mine:     c.Query("ownerId") == "me",
	}
	if q.Status != "" && !q.Status.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status filter")
		return
	}
	list, err := h.svc.Businesses.List(c.Request.Context(), actor(c), q)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetBusiness(c *gin.Context) {
	id, ok := pathID(c, "id", "business")
	if !ok {
		return
	}
	business, err := h.svc.Businesses.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, business)
}

func (h *Handler) UpdateBusiness(c *gin.Context) {
	id, ok := pathID(c, "id", "business")
	if !ok {
		return
	}
	var input services.BusinessInput
	if !bindJSON(c, &input) {
		return
	}
	business, err := h.svc.Businesses.Update(c.Request.Context(), actor(c), id, input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, business)
}

func (h *Handler) DeleteBusiness(c *gin.Context) {
	id, ok := pathID(c, "id", "business")
	if !ok {
		return
	}
	if err := h.svc.Businesses.Delete(c.Request.Context(), actor(c), id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Business deleted successfully"})
}

func (h *Handler) ApproveBusiness(c *gin.Context) {
	id, ok := pathID(c, "id", "business")
	if !ok {
		return
	}
	business, err := h.svc.Businesses.Approve(c.Request.Context(), actor(c), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, business)
}

// RejectBusiness accepts an optional {"reason": "..."} body.
func (h *Handler) RejectBusiness(c *gin.Context) {
	id, ok := pathID(c, "id", "business")
	if !ok {
		return
	}
	var input RejectInput
	if c.Request.ContentLength > 0 && !bindJSON(c, &input) {
		return
	}
	business, err := h.svc.Businesses.Reject(c.Request.Context(), actor(c), id, input.Reason)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, business)
}

// VerifyBusiness sets the badge; an empty body means verified.
func (h *Handler) VerifyBusiness(c *gin.Context) {
	id, ok := pathID(c, "id", "business")
	if !ok {
		return
	}
	var input VerifyInput
	if c.Request.ContentLength > 0 && !bindJSON(c, &input) {
		return
	}
	verified := true
	if input.IsVerified != nil {
		verified = *input.IsVerified
	}
	business, err := h.svc.Businesses.Verify(c.Request.Context(), actor(c), id, verified)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, business)
}

func (h *Handler) GetBusinessServices(c *gin.Context) {
	id, ok := pathID(c, "id", "business")
	if !ok {
		return
	}
	list, err := h.svc.Catalog.ListForBusiness(c.Request.Context(), actor(c), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetBusinessReviews(c *gin.Context) {
	id, ok := pathID(c, "id", "business")
	if !ok {
		return
	}
	page, err := h.svc.Reviews.ListForBusiness(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
