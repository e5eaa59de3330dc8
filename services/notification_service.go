// services/notification_service.go
package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"intellibiz-backend/repository"
)

// SMSSender delivers a text message and returns the provider message id.
type SMSSender interface {
	Send(to, body string) (string, error)
}

// TwilioSender sends SMS through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSid, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: from,
	}
}

func (s *TwilioSender) Send(to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// Notifier tells a user about something that happened to their records.
// Delivery is best effort: failures are logged, never returned.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, message string)
}

// SMSNotifier texts the user's phone number on file.
type SMSNotifier struct {
	users  repository.UserRepository
	sender SMSSender
}

func NewSMSNotifier(users repository.UserRepository, sender SMSSender) *SMSNotifier {
	return &SMSNotifier{users: users, sender: sender}
}

func (n *SMSNotifier) Notify(ctx context.Context, userID uuid.UUID, message string) {
	user, err := n.users.FindByID(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("notification skipped: user lookup failed")
		return
	}
	phone := strings.TrimSpace(user.Phone)
	if phone == "" {
		return
	}
	sid, err := n.sender.Send(phone, message)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to send notification")
		return
	}
	log.Debug().Str("user_id", userID.String()).Str("sid", sid).Msg("notification sent")
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, uuid.UUID, string) {}
