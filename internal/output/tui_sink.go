package output

import (
	"sync"
	"time"

	"github.com/ozonewl/dhost/internal/message"
)

// motionInterval bounds how often pointer motion reaches the UI. Every Send
// costs a redraw and a moving pointer reports far faster than that.
const motionInterval = 50 * time.Millisecond

// Sender abstracts Bubble Tea's Program.Send to keep TUISink decoupled and testable.
type Sender interface {
	Send(msg any)
}

// TUISink hands events to the UI program as tea messages, unformatted.
type TUISink struct {
	sender Sender
	now    func() time.Time

	mu         sync.Mutex
	lastMotion time.Time
}

func NewTUISink(sender Sender) *TUISink {
	return &TUISink{sender: sender, now: time.Now}
}

func (s *TUISink) emit(event any) {
	if s == nil || s.sender == nil {
		return
	}
	if _, ok := event.(message.PointerMotion); ok && !s.allowMotion() {
		return
	}
	s.sender.Send(event)
}

func (s *TUISink) allowMotion() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if !s.lastMotion.IsZero() && now.Sub(s.lastMotion) < motionInterval {
		return false
	}
	s.lastMotion = now
	return true
}
