package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loanverse-backend/internal/conversation"
	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
	"github.com/Ananth-NQI/loanverse-backend/internal/models"
	"github.com/Ananth-NQI/loanverse-backend/internal/storage"
)

var chatNow = time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)

type fakeSender struct {
	mu   sync.Mutex
	sent map[string][]string
	err  error
}

func (f *fakeSender) SendWhatsAppMessage(to, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.sent == nil {
		f.sent = map[string][]string{}
	}
	f.sent[to] = append(f.sent[to], message)
	return nil
}

type chatFixture struct {
	chat     *ChatService
	store    *storage.MemoryStore
	sessions *SessionManager
	sender   *fakeSender
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	log := logger.NewTestLogger(t)
	store, err := storage.NewSeededMemoryStore()
	require.NoError(t, err)

	o, err := conversation.NewOrchestrator(conversation.Deps{
		Profiles: store,
		Logger:   log,
		Clock:    func() time.Time { return chatNow },
	})
	require.NoError(t, err)

	sessions := NewSessionManager(storage.NewMemorySessionStore(time.Hour, time.Hour), time.Hour, log)
	sessions.now = func() time.Time { return chatNow }
	sender := &fakeSender{}
	return &chatFixture{
		chat:     NewChatService(o, sessions, store, sender, log),
		store:    store,
		sessions: sessions,
		sender:   sender,
	}
}

func (f *chatFixture) send(t *testing.T, id, text string) *TurnResult {
	t.Helper()
	res, err := f.chat.ProcessMessage(context.Background(), id, text)
	require.NoError(t, err, text)
	return res
}

func TestChatServiceFullApplication(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	s, err := f.chat.Start(ctx, conversation.SourceDirect, "")
	require.NoError(t, err)
	require.Len(t, s.Messages, 1)

	f.send(t, s.ID, "Hi, I am Ravi Kumar")
	f.send(t, s.ID, "it is for my wedding")
	res := f.send(t, s.ID, "9876543210")
	assert.Equal(t, conversation.PhaseNeedsAnalysis, res.Phase)

	res = f.send(t, s.ID, "3 lakh")
	assert.Equal(t, conversation.PhaseOptions, res.Phase)
	res = f.send(t, s.ID, "option 2")
	assert.Equal(t, conversation.PhaseConfirmation, res.Phase)

	res = f.send(t, s.ID, "yes")
	assert.Equal(t, conversation.OutcomeSanctioned, res.Outcome)
	assert.Equal(t, conversation.PhaseDocumentation, res.Phase)
	require.NotEmpty(t, res.SanctionID)

	rec, err := f.chat.GetSanction(ctx, res.SanctionID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, rec.SessionID)
	assert.Equal(t, "9876543210", rec.Phone)
	assert.Equal(t, int64(300000), rec.Amount)
	assert.Equal(t, 36, rec.TenureMonths)
	assert.Equal(t, int64(500000), rec.PreApprovedLimit)
	assert.Equal(t, "INSTANT", rec.ApprovalType)
	assert.Contains(t, string(rec.Document), "<!DOCTYPE html>")

	stored, err := f.chat.Session(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, res.SanctionID, stored.LoanID)
	assert.Equal(t, conversation.PhaseDocumentation, stored.Phase)
}

func TestChatServiceUnknownSession(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.chat.ProcessMessage(context.Background(), "nope", "hello")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	_, err = f.chat.GetSanction(context.Background(), "LV000")
	assert.ErrorIs(t, err, apperrors.ErrSanctionNotFound)
}

func TestChatServiceStartWithPurpose(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	s, err := f.chat.Start(ctx, conversation.SourceWeddingEmail, "wedding")
	require.NoError(t, err)
	require.NotNil(t, s.PrefilledPurpose)

	res := f.send(t, s.ID, "my name is Priya")
	assert.Equal(t, conversation.PhaseVerification, res.Phase)
}

func TestChatServiceUpload(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	s, err := f.chat.Start(ctx, conversation.SourceDirect, "")
	require.NoError(t, err)

	res, err := f.chat.ProcessUpload(ctx, s.ID, "slip.pdf", 2048)
	require.NoError(t, err)
	assert.Equal(t, conversation.OutcomeInfo, res.Outcome)
	assert.Equal(t, conversation.PhaseWarmOpening, res.Phase)
}

func TestChatServiceEndSession(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	s, err := f.chat.Start(ctx, "", "")
	require.NoError(t, err)
	require.NoError(t, f.chat.EndSession(ctx, s.ID))

	_, err = f.chat.Session(ctx, s.ID)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	assert.ErrorIs(t, f.chat.EndSession(ctx, s.ID), apperrors.ErrSessionNotFound)
}

func TestChatServiceFailedTurnIsNotSaved(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)
	o, err := conversation.NewOrchestrator(conversation.Deps{
		Profiles: failingProfiles{},
		Logger:   log,
		Clock:    func() time.Time { return chatNow },
	})
	require.NoError(t, err)
	sessions := NewSessionManager(storage.NewMemorySessionStore(time.Hour, time.Hour), time.Hour, log)
	sessions.now = func() time.Time { return chatNow }
	chat := NewChatService(o, sessions, storage.NewMemoryStore(), nil, log)

	s, err := chat.Start(ctx, "", "")
	require.NoError(t, err)
	_, err = chat.ProcessMessage(ctx, s.ID, "I am Ravi Kumar")
	require.NoError(t, err)
	_, err = chat.ProcessMessage(ctx, s.ID, "wedding")
	require.NoError(t, err)

	before, err := chat.Session(ctx, s.ID)
	require.NoError(t, err)

	_, err = chat.ProcessMessage(ctx, s.ID, "9876543210")
	require.Error(t, err)

	after, err := chat.Session(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Phase, after.Phase)
	assert.Len(t, after.Messages, len(before.Messages))
}

type failingProfiles struct{}

func (failingProfiles) GetProfileByPhone(context.Context, string) (*models.CustomerProfile, error) {
	return nil, errors.New("connection refused")
}

func TestProcessWhatsAppGreetsNewNumber(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	res, err := f.chat.ProcessWhatsApp(ctx, "whatsapp:+919876543210", "hi")
	require.NoError(t, err)
	assert.Equal(t, "wa:9876543210", res.SessionID)
	require.Len(t, res.Messages, 1)
	assert.Contains(t, res.Messages[0].Text, "WhatsApp")
	assert.Equal(t, conversation.PhaseWarmOpening, res.Phase)

	s, err := f.chat.Session(ctx, "wa:9876543210")
	require.NoError(t, err)
	assert.Equal(t, conversation.ChannelWhatsApp, s.Channel)
	assert.Equal(t, conversation.SourceWhatsApp, s.Source)

	res, err = f.chat.ProcessWhatsApp(ctx, "whatsapp:+919876543210", "I am Ravi Kumar")
	require.NoError(t, err)
	assert.Equal(t, conversation.PhasePurposeDiscovery, res.Phase)
	assert.Len(t, res.Messages, 1)
}

func TestProcessWhatsAppIntroductionInFirstMessage(t *testing.T) {
	f := newChatFixture(t)

	res, err := f.chat.ProcessWhatsApp(context.Background(), "whatsapp:+918765432109", "Hello, my name is Priya Sharma")
	require.NoError(t, err)
	assert.Equal(t, conversation.PhasePurposeDiscovery, res.Phase)
	assert.Len(t, res.Messages, 2, "greeting followed by the reply to the introduction")
}

func TestProcessWhatsAppRejectsBadNumber(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.chat.ProcessWhatsApp(context.Background(), "whatsapp:+1415", "hi")
	se, ok := apperrors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInvalidRequest, se.Code)
}

func TestDeliver(t *testing.T) {
	f := newChatFixture(t)
	res := &TurnResult{Messages: []conversation.Message{{Text: "one"}, {Text: "two"}}}
	assert.Equal(t, "one\n\ntwo", res.Text())

	require.NoError(t, f.chat.Deliver("whatsapp:+919876543210", res.Texts()...))
	assert.Equal(t, []string{"one", "two"}, f.sender.sent["whatsapp:+919876543210"])

	f.sender.err = errors.New("twilio down")
	assert.Error(t, f.chat.Deliver("whatsapp:+919876543210", "three"))

	noSender := NewChatService(nil, nil, nil, nil, logger.NewNoOpLogger())
	assert.NoError(t, noSender.Deliver("x", "one"))
}
