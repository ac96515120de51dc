package collections

import (
	"sync"
	"time"
)

// SaveStatus is the editor save indicator state
type SaveStatus string

const (
	StatusIdle   SaveStatus = "idle"
	StatusSaving SaveStatus = "saving"
	StatusSaved  SaveStatus = "saved"
)

// DefaultSavedHold is how long "saved" stays up before returning to idle
const DefaultSavedHold = 2 * time.Second

// SaveIndicator moves Idle -> Saving -> Saved -> Idle. A failed save goes straight back to Idle.
type SaveIndicator struct {
	hold time.Duration

	mu     sync.Mutex
	status SaveStatus
	timer  *time.Timer
}

func NewSaveIndicator(hold time.Duration) *SaveIndicator {
	return &SaveIndicator{hold: hold, status: StatusIdle}
}

func (s *SaveIndicator) Status() SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *SaveIndicator) Saving() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop()
	s.status = StatusSaving
}

// Done ends a save started with Saving
func (s *SaveIndicator) Done(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop()

	if err != nil {
		s.status = StatusIdle
		return
	}

	s.status = StatusSaved
	var timer *time.Timer
	timer = time.AfterFunc(s.hold, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.timer == timer {
			s.status = StatusIdle
			s.timer = nil
		}
	})
	s.timer = timer
}

func (s *SaveIndicator) stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
