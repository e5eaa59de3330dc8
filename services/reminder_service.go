// services/reminder_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"intellibiz-backend/metrics"
	"intellibiz-backend/models"
	"intellibiz-backend/repository"
	"intellibiz-backend/utils"
)

const DefaultReminderSchedule = "0 9 * * *"

// ReminderService texts customers the day before a confirmed appointment.
type ReminderService struct {
	store  *repository.Store
	sender SMSSender
	now    func() time.Time
	cron   *cron.Cron
}

func NewReminderService(store *repository.Store, sender SMSSender, now func() time.Time) *ReminderService {
	if now == nil {
		now = time.Now
	}
	return &ReminderService{store: store, sender: sender, now: now}
}

// StartScheduler registers the daily run and starts the cron loop.
func (s *ReminderService) StartScheduler(schedule string) error {
	if schedule == "" {
		schedule = DefaultReminderSchedule
	}
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(schedule, func() {
		s.SendDailyReminders(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	log.Info().Str("schedule", schedule).Msg("Reminder scheduler started")
	return nil
}

// Stop waits for a running job to finish.
func (s *ReminderService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// SendDailyReminders returns the number of reminders delivered.
func (s *ReminderService) SendDailyReminders(ctx context.Context) int {
	date := utils.Tomorrow(s.now())
	log.Info().Str("date", date).Msg("Starting daily reminder processing")

	appointments, err := s.store.Appointments.List(ctx, repository.AppointmentFilter{
		Status: models.AppointmentConfirmed,
		Date:   date,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch appointments for reminders")
		return 0
	}

	sent := 0
	for i := range appointments {
		if s.sendReminder(ctx, &appointments[i]) {
			sent++
		}
	}
	log.Info().Int("sent", sent).Int("candidates", len(appointments)).Msg("Daily reminder processing completed")
	return sent
}

func (s *ReminderService) alreadyReminded(ctx context.Context, appointmentID uuid.UUID) bool {
	n, err := s.store.ReminderLogs.Count(ctx, repository.ReminderLogFilter{
		AppointmentID: appointmentID,
		Status:        models.ReminderSent,
	})
	if err != nil {
		log.Warn().Err(err).Str("appointment_id", appointmentID.String()).Msg("Failed to check reminder log")
		return true
	}
	return n > 0
}

func (s *ReminderService) sendReminder(ctx context.Context, appt *models.Appointment) bool {
	if s.alreadyReminded(ctx, appt.ID) {
		return false
	}
	customer, err := s.store.Users.FindByID(ctx, appt.UserID)
	if err != nil {
		log.Warn().Err(err).Str("appointment_id", appt.ID.String()).Msg("Reminder skipped: customer lookup failed")
		return false
	}
	phone := strings.TrimSpace(customer.Phone)
	if phone == "" {
		return false
	}

	businessName := "your appointment"
	if business, err := s.store.Businesses.FindByID(ctx, appt.BusinessID); err == nil {
		businessName = business.Name
	}
	message := fmt.Sprintf("Hi %s, this is a reminder of your booking at %s tomorrow (%s) at %s.",
		customer.Name, businessName, appt.Date, appt.StartTime)

	status := models.ReminderSent
	errorMsg := ""
	sid, err := s.sender.Send(phone, message)
	if err != nil {
		status = models.ReminderFailed
		errorMsg = err.Error()
		log.Warn().Err(err).Str("appointment_id", appt.ID.String()).Msg("Failed to send reminder")
	} else {
		log.Debug().Str("appointment_id", appt.ID.String()).Str("sid", sid).Msg("Reminder sent")
	}
	metrics.RemindersSent.WithLabelValues(status).Inc()

	now := s.now()
	entry := &models.ReminderLog{
		ID:            uuid.New(),
		AppointmentID: appt.ID,
		UserID:        customer.ID,
		Channel:       "sms",
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMsg,
		SentAt:        now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.ReminderLogs.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("appointment_id", appt.ID.String()).Msg("Failed to log reminder")
	}
	return status == models.ReminderSent
}
