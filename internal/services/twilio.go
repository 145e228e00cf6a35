package services

import (
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Ananth-NQI/loanverse-backend/internal/config"
	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
)

// whatsAppBodyLimit is Twilio's maximum body length for one WhatsApp message.
const whatsAppBodyLimit = 1600

// MessageSender delivers a text to a customer's WhatsApp number.
type MessageSender interface {
	SendWhatsAppMessage(to string, message string) error
}

type TwilioService struct {
	client *twilio.RestClient
	from   string // Your Twilio WhatsApp number
	log    logger.Logger
}

// NewTwilioService creates a new Twilio service instance
func NewTwilioService(cfg config.TwilioConfig, log logger.Logger) (*TwilioService, error) {
	if !cfg.Configured() || cfg.WhatsAppFrom == "" {
		return nil, fmt.Errorf("missing Twilio credentials in configuration")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &TwilioService{
		client: client,
		from:   cfg.WhatsAppFrom, // Format: "whatsapp:+14155238886"
		log:    log,
	}, nil
}

// SendWhatsAppMessage sends a WhatsApp message via Twilio. Bodies over the
// WhatsApp limit go out as several messages.
func (t *TwilioService) SendWhatsAppMessage(to string, message string) error {
	if !strings.HasPrefix(to, "whatsapp:") {
		to = "whatsapp:" + to
	}

	for _, part := range SplitMessage(message, whatsAppBodyLimit) {
		params := &twilioApi.CreateMessageParams{}
		params.SetFrom(t.from)
		params.SetTo(to)
		params.SetBody(part)

		resp, err := t.client.Api.CreateMessage(params)
		if err != nil {
			t.log.Error("Failed to send WhatsApp message", map[string]interface{}{"to": to, "error": err.Error()})
			return fmt.Errorf("failed to send WhatsApp message: %w", err)
		}
		if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
			msg := ""
			if resp.ErrorMessage != nil {
				msg = *resp.ErrorMessage
			}
			return fmt.Errorf("twilio error %d: %s", *resp.ErrorCode, msg)
		}

		sid := ""
		if resp.Sid != nil {
			sid = *resp.Sid
		}
		t.log.Debug("WhatsApp message sent", map[string]interface{}{"to": to, "sid": sid})
	}
	return nil
}

// SplitMessage breaks text into chunks of at most limit runes, cutting at
// line ends where possible.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || len([]rune(text)) <= limit {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	currentLen := 0
	flush := func() {
		if currentLen > 0 {
			parts = append(parts, strings.TrimRight(current.String(), "\n"))
			current.Reset()
			currentLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		if currentLen+len(runes) > limit {
			flush()
		}
		for len(runes) > limit {
			parts = append(parts, string(runes[:limit]))
			runes = runes[limit:]
		}
		current.WriteString(string(runes))
		currentLen += len(runes)
	}
	flush()
	return parts
}
