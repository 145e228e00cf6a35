package jobs

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Ananth-NQI/loanverse-backend/internal/conversation"
	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
	"github.com/Ananth-NQI/loanverse-backend/internal/metrics"
	"github.com/Ananth-NQI/loanverse-backend/internal/services"
)

// FollowUpJob nudges WhatsApp customers who went quiet while a decision was
// pending, and keeps the active session gauge current.
type FollowUpJob struct {
	sessions *services.SessionManager
	sender   services.MessageSender
	interval time.Duration
	idle     time.Duration
	log      logger.Logger
	now      func() time.Time

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewFollowUpJob creates the follow-up scheduler. sender may be nil, in which
// case only the gauge is maintained.
func NewFollowUpJob(sessions *services.SessionManager, sender services.MessageSender, interval, idle time.Duration, log logger.Logger) *FollowUpJob {
	return &FollowUpJob{
		sessions: sessions,
		sender:   sender,
		interval: interval,
		idle:     idle,
		log:      log,
		now:      time.Now,
	}
}

// Start begins the ticker loop
func (j *FollowUpJob) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.isRunning {
		j.log.Warn("Follow-up job already running", nil)
		return
	}

	ctx, j.cancel = context.WithCancel(ctx)
	j.done = make(chan struct{})
	j.isRunning = true

	go j.loop(ctx, j.done)
	j.log.Info("Follow-up job started", map[string]interface{}{
		"interval":    j.interval.String(),
		"idle_window": j.idle.String(),
	})
}

// Stop halts the loop and waits for an in-flight run to finish
func (j *FollowUpJob) Stop() {
	j.mu.Lock()
	if !j.isRunning {
		j.mu.Unlock()
		return
	}
	j.isRunning = false
	j.cancel()
	done := j.done
	j.mu.Unlock()

	<-done
	j.log.Info("Follow-up job stopped", nil)
}

func (j *FollowUpJob) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := j.RunOnce(ctx); err != nil {
				j.log.Error("Follow-up run failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}
}

// RunOnce sends every due reminder and returns how many went out.
func (j *FollowUpJob) RunOnce(ctx context.Context) (int, error) {
	active, err := j.sessions.ActiveSessions(ctx)
	if err != nil {
		return 0, err
	}
	metrics.ActiveSessions.Set(float64(len(active)))

	if j.sender == nil {
		return 0, nil
	}

	sent := 0
	for _, s := range active {
		if !j.due(s) {
			continue
		}
		ok, err := j.remind(ctx, s.ID)
		if err != nil {
			j.log.Warn("Follow-up not sent", map[string]interface{}{"session_id": s.ID, "error": err.Error()})
			continue
		}
		if ok {
			sent++
		}
	}

	if sent > 0 {
		j.log.Info("Follow-ups sent", map[string]interface{}{"count": sent})
	}
	return sent, nil
}

func (j *FollowUpJob) due(s *conversation.Session) bool {
	return s.Channel == conversation.ChannelWhatsApp &&
		!s.FollowUpSent &&
		!s.HumanHandoff() &&
		s.Awaiting() &&
		j.now().Sub(s.UpdatedAt) >= j.idle
}

// remind re-reads the session under its turn lock so a reply that arrived
// since the listing wins over the reminder.
func (j *FollowUpJob) remind(ctx context.Context, id string) (bool, error) {
	unlock := j.sessions.Lock(id)
	defer unlock()

	s, err := j.sessions.Load(ctx, id)
	if err != nil {
		return false, err
	}
	if !j.due(s) {
		return false, nil
	}

	text, ok := s.FollowUp(j.now())
	if !ok {
		return false, nil
	}
	if err := j.sender.SendWhatsAppMessage(whatsAppAddress(s), text); err != nil {
		return false, err
	}
	if err := j.sessions.Save(ctx, s); err != nil {
		return false, err
	}
	metrics.FollowUpsSent.Inc()
	return true, nil
}

// whatsAppAddress is the number the conversation came in from, which may
// differ from the phone the customer verified with.
func whatsAppAddress(s *conversation.Session) string {
	return "whatsapp:+91" + strings.TrimPrefix(s.ID, "wa:")
}
