package api

import (
	"context"
	"time"

	"github.com/amterp/elysian/internal/session"
)

// TimerMessage is the payload of a timer message.
type TimerMessage struct {
	SessionID    string `json:"session_id"`
	TimerSeconds int    `json:"timer_seconds"`
	TimerText    string `json:"timer_text"`
	Running      bool   `json:"running"`
	Done         bool   `json:"done"`
}

// TimerScheduler ticks every running session timer once per interval and
// broadcasts the new value. Stopped timers and timers already at zero
// produce no messages.
type TimerScheduler struct {
	sessions *SessionRegistry
	hub      Broadcaster
	interval time.Duration
}

// NewTimerScheduler creates a scheduler ticking once per second.
func NewTimerScheduler(sessions *SessionRegistry, hub Broadcaster) *TimerScheduler {
	return &TimerScheduler{sessions: sessions, hub: hub, interval: time.Second}
}

// Run ticks until ctx is cancelled.
func (s *TimerScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.TickAll()
		}
	}
}

// TickAll advances every running timer by one second and publishes each
// new value to that session's watchers. Returns how many timers moved.
func (s *TimerScheduler) TickAll() int {
	moved := 0
	for _, study := range s.sessions.All() {
		view, change := study.Tick()
		if !change.Has(session.ChangeTimer) {
			continue
		}
		moved++

		if s.hub != nil {
			s.hub.Publish(view.SessionID, MessageTimer, TimerMessage{
				SessionID:    view.SessionID,
				TimerSeconds: view.TimerSeconds,
				TimerText:    view.TimerText,
				Running:      view.TimerRunning,
				Done:         view.TimerSeconds == 0,
			})
		}
	}
	return moved
}
