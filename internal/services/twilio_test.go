package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loanverse-backend/internal/config"
	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
)

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitMessage("short", 1600))

	text := strings.Repeat("a", 8) + "\n" + strings.Repeat("b", 8) + "\n" + "cc"
	parts := SplitMessage(text, 10)
	assert.Equal(t, []string{"aaaaaaaa", "bbbbbbbb", "cc"}, parts)

	long := strings.Repeat("x", 25)
	parts = SplitMessage(long, 10)
	require.Len(t, parts, 3)
	assert.Equal(t, strings.Repeat("x", 5), parts[2])

	rupees := strings.Repeat("₹", 12)
	parts = SplitMessage(rupees, 10)
	require.Len(t, parts, 2)
	assert.Equal(t, "₹₹", parts[1], "limits count runes")
}

func TestNewTwilioServiceRequiresCredentials(t *testing.T) {
	_, err := NewTwilioService(config.TwilioConfig{}, logger.NewNoOpLogger())
	assert.Error(t, err)

	svc, err := NewTwilioService(config.TwilioConfig{
		AccountSID:   "ACtest",
		AuthToken:    "token",
		WhatsAppFrom: "whatsapp:+14155238886",
	}, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Equal(t, "whatsapp:+14155238886", svc.from)
}
