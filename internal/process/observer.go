package process

import (
	"fmt"

	"github.com/google/uuid"
)

// EventKind says what happened to a supervised process.
type EventKind int

const (
	Spawned EventKind = iota + 1
	Exited
)

func (k EventKind) String() string {
	switch k {
	case Spawned:
		return "spawned"
	case Exited:
		return "exited"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Type distinguishes the kinds of child process a supervisor may run.
type Type string

const TypeDisplay Type = "display"

// Info describes one incarnation of a supervised process. Each respawn gets
// a fresh ID.
type Info struct {
	ID       uuid.UUID
	Type     Type
	Name     string
	PID      int
	ExitCode int
}

// Observer is notified of process lifecycle events. Callbacks run on the
// supervisor's goroutine and must return quickly.
type Observer interface {
	OnProcessEvent(kind EventKind, info Info)
}

type ObserverFunc func(kind EventKind, info Info)

func (f ObserverFunc) OnProcessEvent(kind EventKind, info Info) { f(kind, info) }
