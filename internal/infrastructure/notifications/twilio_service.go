package notifications

import (
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// TwilioServiceImpl implements domain.NotificationService for the SMS
// channel.
type TwilioServiceImpl struct {
	client     *twilio.RestClient
	fromNumber string
}

// NewTwilioService creates a new Twilio notification service
func NewTwilioService(accountSID, authToken, fromNumber string) domain.NotificationService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioServiceImpl{
		client:     client,
		fromNumber: fromNumber,
	}
}

// SendSMS implements domain.NotificationService
func (t *TwilioServiceImpl) SendSMS(to, message string) error {
	// Without a configured sender number, log instead of sending.
	if t.fromNumber == "" {
		log.Printf("SMS_MOCK: to=%s message=%q", to, message)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	_, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	return nil
}

// SendEmail implements domain.NotificationService. Email is not
// served through Twilio; wire the SMTP service for that channel.
func (t *TwilioServiceImpl) SendEmail(to, subject, templateName string, data map[string]any) error {
	log.Printf("EMAIL_MOCK: to=%s subject=%q template=%s", to, subject, templateName)
	return nil
}
