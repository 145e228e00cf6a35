package middleware

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
)

const (
	testToken      = "12345"
	testWebhookURL = "http://example.com/webhook/whatsapp"
)

func sign(token, fullURL string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(fullURL)
	for _, k := range keys {
		b.WriteString(k + params[k])
	}
	mac := hmac.New(sha1.New, []byte(token))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newWebhookApp(token string) *fiber.App {
	app := fiber.New()
	app.Post("/webhook/whatsapp", ValidateTwilioSignature(token, logger.NewNoOpLogger()), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func postForm(t *testing.T, app *fiber.App, params map[string]string, signature string) int {
	t.Helper()
	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	req := httptest.NewRequest("POST", testWebhookURL, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if signature != "" {
		req.Header.Set("X-Twilio-Signature", signature)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestValidateTwilioSignature(t *testing.T) {
	params := map[string]string{
		"From": "whatsapp:+919876543210",
		"Body": "hello",
	}

	tests := []struct {
		name      string
		token     string
		signature string
		want      int
	}{
		{"valid signature", testToken, sign(testToken, testWebhookURL, params), fiber.StatusOK},
		{"missing signature", testToken, "", fiber.StatusUnauthorized},
		{"wrong token", testToken, sign("other", testWebhookURL, params), fiber.StatusUnauthorized},
		{"unconfigured token", "", sign(testToken, testWebhookURL, params), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newWebhookApp(tt.token)
			assert.Equal(t, tt.want, postForm(t, app, params, tt.signature))
		})
	}
}
