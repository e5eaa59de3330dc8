package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"intellibiz-backend/models"
	"intellibiz-backend/policy"
	"intellibiz-backend/services"
	"intellibiz-backend/utils"
)

type FlagInput struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *Handler) CreateReview(c *gin.Context) {
	var input services.ReviewInput
	if !bindJSON(c, &input) {
		return
	}
	review, err := h.svc.Reviews.Create(c.Request.Context(), actor(c), input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// GetReviews supports ?status=, ?flagged=true|false and ?businessId=.
func (h *Handler) GetReviews(c *gin.Context) {
	businessID, ok := queryID(c, "businessId")
	if !ok {
		return
	}
	q := services.ReviewQuery{
		BusinessID: businessID,
		Status:     models.ReviewStatus(c.Query("status")),
	}
	if raw := c.Query("flagged"); raw != "" {
		flagged, err := strconv.ParseBool(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "flagged must be true or false")
			return
		}
		q.Flagged = &flagged
	}
	list, err := h.svc.Reviews.List(c.Request.Context(), actor(c), q)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetReview(c *gin.Context) {
	id, ok := pathID(c, "id", "review")
	if !ok {
		return
	}
	review, err := h.svc.Reviews.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

type reviewOp func(c *gin.Context, a policy.Actor, id uuid.UUID) (*services.ReviewView, error)

func (h *Handler) reviewAction(do reviewOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id", "review")
		if !ok {
			return
		}
		review, err := do(c, actor(c), id)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

func (h *Handler) ApproveReview() gin.HandlerFunc {
	return h.reviewAction(func(c *gin.Context, a policy.Actor, id uuid.UUID) (*services.ReviewView, error) {
		return h.svc.Reviews.Approve(c.Request.Context(), a, id)
	})
}

func (h *Handler) RejectReview() gin.HandlerFunc {
	return h.reviewAction(func(c *gin.Context, a policy.Actor, id uuid.UUID) (*services.ReviewView, error) {
		return h.svc.Reviews.Reject(c.Request.Context(), a, id)
	})
}

func (h *Handler) UnflagReview() gin.HandlerFunc {
	return h.reviewAction(func(c *gin.Context, a policy.Actor, id uuid.UUID) (*services.ReviewView, error) {
		return h.svc.Reviews.Unflag(c.Request.Context(), a, id)
	})
}

func (h *Handler) FlagReview(c *gin.Context) {
	id, ok := pathID(c, "id", "review")
	if !ok {
		return
	}
	var input FlagInput
	if !bindJSON(c, &input) {
		return
	}
	review, err := h.svc.Reviews.Flag(c.Request.Context(), actor(c), id, input.Reason)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *Handler) DeleteReview(c *gin.Context) {
	id, ok := pathID(c, "id", "review")
	if !ok {
		return
	}
	if err := h.svc.Reviews.Delete(c.Request.Context(), actor(c), id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
