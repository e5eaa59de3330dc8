package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intellibiz-backend/models"
	"intellibiz-backend/services"
	"intellibiz-backend/utils"
)

type UpdateStatusInput struct {
	Status models.AppointmentStatus `json:"status" binding:"required"`
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var input services.BookingInput
	if !bindJSON(c, &input) {
		return
	}
	appt, err := h.svc.Appointments.Create(c.Request.Context(), actor(c), input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// GetAppointments supports ?status=, ?businessId= and ?date=.
func (h *Handler) GetAppointments(c *gin.Context) {
	businessID, ok := queryID(c, "businessId")
	if !ok {
		return
	}
	list, err := h.svc.Appointments.List(c.Request.Context(), actor(c), services.AppointmentQuery{
		Status:     models.AppointmentStatus(c.Query("status")),
		BusinessID: businessID,
		Date:       c.Query("date"),
	})
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := pathID(c, "id", "appointment")
	if !ok {
		return
	}
	appt, err := h.svc.Appointments.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	id, ok := pathID(c, "id", "appointment")
	if !ok {
		return
	}
	var input UpdateStatusInput
	if !bindJSON(c, &input) {
		return
	}
	appt, err := h.svc.Appointments.UpdateStatus(c.Request.Context(), actor(c), id, input.Status)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := pathID(c, "id", "appointment")
	if !ok {
		return
	}
	if err := h.svc.Appointments.Delete(c.Request.Context(), actor(c), id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}
