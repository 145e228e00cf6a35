package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loanverse-backend/internal/conversation"
	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
	"github.com/Ananth-NQI/loanverse-backend/internal/services"
	"github.com/Ananth-NQI/loanverse-backend/internal/storage"
)

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

func newSession(id, channel string, phase conversation.Phase, idleFor time.Duration) *conversation.Session {
	s := conversation.NewSession(conversation.SourceWhatsApp, channel, time.Now().Add(-idleFor))
	s.ID = id
	s.Phase = phase
	if phase == conversation.PhaseOptions {
		s.Step = conversation.StepSelecting
	}
	name := "Ravi Kumar"
	s.Entities.Name = &name
	return s
}

func setup(t *testing.T, sessions ...*conversation.Session) (*services.SessionManager, *fakeSender, *FollowUpJob) {
	t.Helper()
	log := logger.NewTestLogger(t)
	sm := services.NewSessionManager(storage.NewMemorySessionStore(time.Hour, time.Hour), time.Hour, log)
	for _, s := range sessions {
		require.NoError(t, sm.Save(context.Background(), s))
	}
	sender := &fakeSender{}
	return sm, sender, NewFollowUpJob(sm, sender, time.Minute, 20*time.Minute, log)
}

func TestFollowUpJobRunOnce(t *testing.T) {
	ctx := context.Background()
	sm, sender, job := setup(t,
		newSession("wa:9876543210", conversation.ChannelWhatsApp, conversation.PhaseOptions, 25*time.Minute),
		newSession("wa:8765432109", conversation.ChannelWhatsApp, conversation.PhaseOptions, 5*time.Minute),
		newSession("wa:7654321098", conversation.ChannelWhatsApp, conversation.PhaseVerification, 25*time.Minute),
		newSession("web-1", conversation.ChannelWeb, conversation.PhaseOptions, 25*time.Minute),
	)

	sent, err := job.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, sender.sent["whatsapp:+919876543210"], 1)
	assert.Contains(t, sender.sent["whatsapp:+919876543210"][0], "Hi Ravi")

	s, err := sm.Load(ctx, "wa:9876543210")
	require.NoError(t, err)
	assert.True(t, s.FollowUpSent)
	require.NotEmpty(t, s.Messages)
	assert.Equal(t, conversation.RoleAssistant, s.Messages[len(s.Messages)-1].Role)

	sent, err = job.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent, "one reminder per conversation")
}

func TestFollowUpJobSkipsHandoffs(t *testing.T) {
	s := newSession("wa:9876543210", conversation.ChannelWhatsApp, conversation.PhaseConfirmation, 30*time.Minute)
	s.HandoffRequested = true
	_, sender, job := setup(t, s)

	sent, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, sender.sent)
}

func TestFollowUpJobSendFailureKeepsSessionDue(t *testing.T) {
	ctx := context.Background()
	sm, sender, job := setup(t, newSession("wa:9876543210", conversation.ChannelWhatsApp, conversation.PhaseOptions, 25*time.Minute))
	sender.err = errors.New("twilio down")

	sent, err := job.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)

	s, err := sm.Load(ctx, "wa:9876543210")
	require.NoError(t, err)
	assert.False(t, s.FollowUpSent)

	sender.err = nil
	sent, err = job.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestFollowUpJobWithoutSender(t *testing.T) {
	log := logger.NewTestLogger(t)
	sm := services.NewSessionManager(storage.NewMemorySessionStore(time.Hour, time.Hour), time.Hour, log)
	require.NoError(t, sm.Save(context.Background(), newSession("wa:9876543210", conversation.ChannelWhatsApp, conversation.PhaseOptions, 25*time.Minute)))

	job := NewFollowUpJob(sm, nil, time.Minute, 20*time.Minute, log)
	sent, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestFollowUpJobStartStop(t *testing.T) {
	_, _, job := setup(t)
	job.interval = 5 * time.Millisecond

	job.Start(context.Background())
	job.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	job.Stop()
	job.Stop()
}
