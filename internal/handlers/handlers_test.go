package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loanverse-backend/internal/affordability"
	"github.com/Ananth-NQI/loanverse-backend/internal/conversation"
	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
	"github.com/Ananth-NQI/loanverse-backend/internal/services"
	"github.com/Ananth-NQI/loanverse-backend/internal/storage"
)

type recordingSender struct {
	sent []string
}

func (r *recordingSender) SendWhatsAppMessage(to, message string) error {
	r.sent = append(r.sent, to+"|"+message)
	return nil
}

type testServer struct {
	app    *fiber.App
	sender *recordingSender
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.NewTestLogger(t)
	store, err := storage.NewSeededMemoryStore()
	require.NoError(t, err)

	o, err := conversation.NewOrchestrator(conversation.Deps{Profiles: store, Logger: log})
	require.NoError(t, err)

	sessions := services.NewSessionManager(storage.NewMemorySessionStore(time.Hour, time.Hour), time.Hour, log)
	sender := &recordingSender{}
	chat := services.NewChatService(o, sessions, store, sender, log)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})

	health := NewHealthHandler("LoanVerse Backend", "test")
	app.Get("/health", health.Check)

	sh := NewSessionHandler(chat)
	app.Post("/api/sessions", sh.Start)
	app.Get("/api/sessions/:id", sh.GetSession)
	app.Delete("/api/sessions/:id", sh.EndSession)
	app.Post("/api/sessions/:id/messages", sh.SendMessage)
	app.Post("/api/sessions/:id/documents", sh.UploadDocument)

	app.Get("/api/customers/:phone", NewCustomerHandler(store, affordability.DefaultPolicy()).GetCustomer)
	app.Get("/api/sanctions/:loanId", NewSanctionHandler(chat).GetSanction)
	app.Get("/api/analytics/funnel", NewAnalyticsHandler(sessions).GetFunnel)

	wa := NewWhatsAppHandler(chat, log)
	app.Post("/webhook/whatsapp", wa.HandleWebhook)
	app.Post("/test/whatsapp", wa.HandleTestWebhook)

	admin := NewAdminHandler(store, sessions, log)
	app.Get("/admin/overview", admin.GetOverview)
	app.Get("/admin/handoffs", admin.GetHandoffs)
	app.Get("/admin/customers", admin.ListCustomers)
	app.Post("/admin/customers", admin.UpsertCustomer)

	return &testServer{app: app, sender: sender}
}

func (s *testServer) do(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func (s *testServer) json(t *testing.T, method, path string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	status, raw := s.do(t, req)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return status, out
}

func (s *testServer) startSession(t *testing.T) string {
	t.Helper()
	status, body := s.json(t, "POST", "/api/sessions", map[string]string{"source": "direct"})
	require.Equal(t, fiber.StatusCreated, status)
	return body["session_id"].(string)
}

func (s *testServer) message(t *testing.T, id, text string) map[string]interface{} {
	t.Helper()
	status, body := s.json(t, "POST", "/api/sessions/"+id+"/messages", map[string]string{"message": text})
	require.Equal(t, fiber.StatusOK, status, body)
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, body := s.json(t, "GET", "/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "OK", body["status"])
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	status, body := s.json(t, "POST", "/api/sessions", map[string]string{"source": "email_wedding", "purpose": "wedding"})
	require.Equal(t, fiber.StatusCreated, status)
	id := body["session_id"].(string)
	assert.Equal(t, "warm_opening", body["phase"])
	require.Len(t, body["messages"], 1)

	res := s.message(t, id, "my name is Ravi Kumar")
	assert.Equal(t, "verification", res["phase"])
	res = s.message(t, id, "98765 43210")
	assert.Equal(t, "needs_analysis", res["phase"])
	res = s.message(t, id, "3 lakh")
	assert.Equal(t, "options_presentation", res["phase"])
	res = s.message(t, id, "option 2")
	assert.Equal(t, "confirmation", res["phase"])
	res = s.message(t, id, "yes please")
	assert.Equal(t, "sanctioned", res["outcome"])
	loanID, ok := res["sanction_id"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(loanID, "LV"))

	req := httptest.NewRequest("GET", "/api/sanctions/"+loanID, nil)
	status, letter := s.do(t, req)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(letter), "Ravi Kumar")

	status, snap := s.json(t, "GET", "/api/sessions/"+id, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "documentation", snap["phase"])
	assert.EqualValues(t, 7, snap["phase_number"])
	assert.Equal(t, loanID, snap["loan_id"])
	assert.Equal(t, true, snap["verified"])

	status, _ = s.json(t, "DELETE", "/api/sessions/"+id, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, body = s.json(t, "GET", "/api/sessions/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "SESSION_NOT_FOUND", body["code"])
}

func TestStartSessionWithoutBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest("POST", "/api/sessions", nil)
	status, _ := s.do(t, req)
	assert.Equal(t, fiber.StatusCreated, status)
}

func TestSendMessageValidation(t *testing.T) {
	s := newTestServer(t)
	id := s.startSession(t)

	status, body := s.json(t, "POST", "/api/sessions/"+id+"/messages", map[string]string{"message": ""})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_REQUEST", body["code"])

	req := httptest.NewRequest("POST", "/api/sessions/"+id+"/messages", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	status, _ = s.do(t, req)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.json(t, "POST", "/api/sessions/unknown/messages", map[string]string{"message": "hi"})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "SESSION_NOT_FOUND", body["code"])
}

func TestUploadDocument(t *testing.T) {
	s := newTestServer(t)
	id := s.startSession(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "salary_slip_march.pdf")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), 4096))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/sessions/"+id+"/documents", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	status, raw := s.do(t, req)
	require.Equal(t, fiber.StatusOK, status, string(raw))

	var res map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.Equal(t, "info", res["outcome"], "uploads outside the salary slip step are only acknowledged")

	req = httptest.NewRequest("POST", "/api/sessions/"+id+"/documents", nil)
	status, _ = s.do(t, req)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestGetCustomer(t *testing.T) {
	s := newTestServer(t)

	status, body := s.json(t, "GET", "/api/customers/+91-98765-43210", nil)
	require.Equal(t, fiber.StatusOK, status)
	profile := body["profile"].(map[string]interface{})
	assert.Equal(t, "Ravi Kumar", profile["name"])
	assert.EqualValues(t, 11.5, body["rate"])
	assert.Greater(t, body["max_capacity"].(float64), 0.0)

	status, body = s.json(t, "GET", "/api/customers/9000000000", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "PROFILE_NOT_FOUND", body["code"])

	status, _ = s.json(t, "GET", "/api/customers/12345", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestGetSanctionNotFound(t *testing.T) {
	s := newTestServer(t)
	status, body := s.json(t, "GET", "/api/sanctions/LV000", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "SANCTION_NOT_FOUND", body["code"])
}

func TestWhatsAppWebhookRepliesThroughSender(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{}
	form.Set("From", "whatsapp:+919876543210")
	form.Set("Body", "Hi")
	form.Set("MessageSid", "SM123")
	req := httptest.NewRequest("POST", "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, _ := s.do(t, req)
	assert.Equal(t, fiber.StatusOK, status)
	require.Len(t, s.sender.sent, 1)
	assert.True(t, strings.HasPrefix(s.sender.sent[0], "whatsapp:+919876543210|"))

	// status callbacks carry no body and are only acknowledged
	form = url.Values{}
	form.Set("MessageStatus", "delivered")
	req = httptest.NewRequest("POST", "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	status, _ = s.do(t, req)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, s.sender.sent, 1)
}

func TestWhatsAppWebhookExplainsFailures(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{}
	form.Set("From", "whatsapp:+1234")
	form.Set("Body", "Hi")
	req := httptest.NewRequest("POST", "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, _ := s.do(t, req)
	assert.Equal(t, fiber.StatusOK, status)
	require.Len(t, s.sender.sent, 1)
	assert.Contains(t, s.sender.sent[0], "couldn't read your WhatsApp number")

	msg := whatsAppFailureMessage(apperrors.NewStorageError("save session", errors.New("connection refused")))
	assert.Contains(t, msg, "temporarily unavailable")
	assert.NotContains(t, msg, "something went wrong")
}

func TestWhatsAppTestEndpoint(t *testing.T) {
	s := newTestServer(t)

	status, body := s.json(t, "POST", "/test/whatsapp", map[string]string{"from": "9876543210", "message": "I am Ravi Kumar"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "wa:9876543210", body["session_id"])
	assert.Contains(t, body["response"], "Ravi")

	status, body = s.json(t, "POST", "/test/whatsapp", map[string]string{"from": "9876543210"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_REQUEST", body["code"])
}

func TestAdminAndAnalytics(t *testing.T) {
	s := newTestServer(t)
	id := s.startSession(t)
	s.message(t, id, "I am Ravi Kumar")
	s.message(t, id, "wedding")
	s.message(t, id, "9876543210")
	res := s.message(t, id, "connect me to a human agent")
	assert.Equal(t, true, res["human_handoff"])

	status, body := s.json(t, "GET", "/admin/overview", nil)
	require.Equal(t, fiber.StatusOK, status)
	overview := body["overview"].(map[string]interface{})
	assert.EqualValues(t, 1, overview["active_sessions"])
	assert.EqualValues(t, 1, overview["human_handoffs"])

	status, body = s.json(t, "GET", "/admin/handoffs", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])

	status, body = s.json(t, "GET", "/api/analytics/funnel", nil)
	require.Equal(t, fiber.StatusOK, status)
	funnel := body["funnel"].([]interface{})
	require.Len(t, funnel, 7)
	assert.EqualValues(t, 1, funnel[3].(map[string]interface{})["reached"])
	assert.EqualValues(t, 0, funnel[4].(map[string]interface{})["reached"])

	status, body = s.json(t, "POST", "/admin/customers", map[string]interface{}{
		"phone": "+91 90000 00001", "name": "Kiran Rao", "credit_score": 760,
		"pre_approved_limit": 300000, "monthly_salary": 70000, "pan": "ABCDE9999K",
	})
	require.Equal(t, fiber.StatusOK, status, body)

	status, body = s.json(t, "GET", "/api/customers/9000000001", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Kiran Rao", body["profile"].(map[string]interface{})["name"])

	status, _ = s.json(t, "POST", "/admin/customers", map[string]interface{}{"phone": "9000000002", "name": "X", "credit_score": 950})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.json(t, "GET", "/admin/customers", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 7, body["count"])
}
