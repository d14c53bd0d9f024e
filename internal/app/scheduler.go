package app

import (
	"sync"
	"time"
)

// AdvanceScheduler arms one deferred advancement check per room. Each
// advancement re-arms exactly once. Forget drops a room's bookkeeping
// without stopping an in-flight timer: a callback from a deleted or
// finished room fires into an idempotent no-op instead of being cancelled.
type AdvanceScheduler interface {
	Schedule(roomID string, questionIndex int, delay time.Duration)
	Forget(roomID string)
}

// TimerScheduler backs the scheduler with time.AfterFunc. Re-arming a room
// replaces its outstanding timer, so at most one callback per room is
// pending at any time.
type TimerScheduler struct {
	fire func(roomID string, questionIndex int)

	mu     sync.Mutex
	timers map[string]*armedTimer
}

type armedTimer struct {
	timer *time.Timer
	index int
}

func NewTimerScheduler(fire func(roomID string, questionIndex int)) *TimerScheduler {
	return &TimerScheduler{
		fire:   fire,
		timers: make(map[string]*armedTimer),
	}
}

// Schedule arms the timeout for a question. Question indices per room only
// ever increase, so an arm carrying a lower index than the one outstanding
// is a straggler from before an advancement and must not replace the newer
// timer.
func (s *TimerScheduler) Schedule(roomID string, questionIndex int, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if armed, ok := s.timers[roomID]; ok {
		if questionIndex < armed.index {
			return
		}
		armed.timer.Stop()
	}
	s.timers[roomID] = &armedTimer{
		index: questionIndex,
		timer: time.AfterFunc(delay, func() {
			s.fire(roomID, questionIndex)
		}),
	}
}

// Forget releases the bookkeeping for a room that no longer needs re-arms.
// A timer that already fired, or is about to, runs its no-op unharmed.
func (s *TimerScheduler) Forget(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, roomID)
}
