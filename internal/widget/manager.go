// Package widget owns the host-side view of UI surfaces. It decides which
// widgets exist and pushes their state to the worker through a
// StateChangeHandler given at construction.
package widget

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ozonewl/dhost/internal/host"
	"github.com/ozonewl/dhost/internal/message"
	"go.uber.org/zap"
)

var ErrUnknownWidget = errors.New("unknown widget")

// StateChangeHandler is the command surface widgets are driven through.
// *host.Host implements it.
type StateChangeHandler interface {
	SetWidgetState(ctx context.Context, widget uint32, state message.WidgetState, width, height uint32) bool
	SetWidgetTitle(ctx context.Context, widget uint32, title string) bool
	SetWidgetAttributes(ctx context.Context, widget, parent, x, y uint32, typ message.WidgetType) bool
}

var _ StateChangeHandler = (*host.Host)(nil)

// Spec describes a widget to open.
type Spec struct {
	Title      string
	Type       message.WidgetType
	Parent     uint32
	X, Y       uint32
	Width      uint32
	Height     uint32
	Fullscreen bool
}

type Widget struct {
	ID    uint32
	Spec  Spec
	State message.WidgetState
}

// Manager also acts as an EventSink so it can follow worker-initiated
// closes and output resizes.
type Manager struct {
	host.NopSink

	handler StateChangeHandler
	logger  *zap.Logger

	mu      sync.Mutex
	next    uint32
	widgets map[uint32]*Widget
	output  message.OutputSize
}

func NewManager(handler StateChangeHandler, logger *zap.Logger) *Manager {
	if handler == nil {
		panic("widget: nil StateChangeHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		handler: handler,
		logger:  logger.Named("widget"),
		widgets: make(map[uint32]*Widget),
	}
}

// Open allocates an id for a new widget and sends its attributes, title and
// initial state. Ids start at 1 and are never reused.
func (m *Manager) Open(ctx context.Context, spec Spec) uint32 {
	m.mu.Lock()
	m.next++
	id := m.next
	w := &Widget{ID: id, Spec: spec, State: message.StateShow}
	width, height := spec.Width, spec.Height
	if spec.Fullscreen {
		w.State = message.StateFullscreen
		width, height = m.output.Width, m.output.Height
	}
	m.widgets[id] = w
	m.mu.Unlock()

	m.handler.SetWidgetAttributes(ctx, id, spec.Parent, spec.X, spec.Y, spec.Type)
	if spec.Title != "" {
		m.handler.SetWidgetTitle(ctx, id, spec.Title)
	}
	m.handler.SetWidgetState(ctx, id, w.State, width, height)
	m.logger.Debug("widget opened", zap.Uint32("widget", id), zap.Stringer("type", spec.Type))
	return id
}

func (m *Manager) lookup(id uint32, update func(w *Widget)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.widgets[id]
	if !ok {
		return fmt.Errorf("%w %d", ErrUnknownWidget, id)
	}
	update(w)
	return nil
}

func (m *Manager) SetTitle(ctx context.Context, id uint32, title string) error {
	if err := m.lookup(id, func(w *Widget) { w.Spec.Title = title }); err != nil {
		return err
	}
	m.handler.SetWidgetTitle(ctx, id, title)
	return nil
}

func (m *Manager) Resize(ctx context.Context, id uint32, width, height uint32) error {
	err := m.lookup(id, func(w *Widget) {
		w.Spec.Width, w.Spec.Height = width, height
		w.Spec.Fullscreen = false
		w.State = message.StateResize
	})
	if err != nil {
		return err
	}
	m.handler.SetWidgetState(ctx, id, message.StateResize, width, height)
	return nil
}

// Close hides the widget on the worker and forgets it.
func (m *Manager) Close(ctx context.Context, id uint32) error {
	m.mu.Lock()
	_, ok := m.widgets[id]
	delete(m.widgets, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w %d", ErrUnknownWidget, id)
	}
	m.handler.SetWidgetState(ctx, id, message.StateHide, 0, 0)
	return nil
}

// Widgets returns a snapshot ordered by id.
func (m *Manager) Widgets() []Widget {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Widget, 0, len(m.widgets))
	for _, w := range m.widgets {
		out = append(out, *w)
	}
	slices.SortFunc(out, func(a, b Widget) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// CloseWidget drops a widget the worker closed on its own. Nothing is sent
// back.
func (m *Manager) CloseWidget(p message.CloseWidget) {
	m.mu.Lock()
	_, ok := m.widgets[p.Widget]
	delete(m.widgets, p.Widget)
	m.mu.Unlock()
	if ok {
		m.logger.Debug("widget closed by worker", zap.Uint32("widget", p.Widget))
	}
}

// OutputSizeChanged records the new output size and stretches fullscreen
// widgets to it.
func (m *Manager) OutputSizeChanged(p message.OutputSize) {
	m.mu.Lock()
	m.output = p
	var fullscreen []uint32
	for id, w := range m.widgets {
		if w.Spec.Fullscreen {
			fullscreen = append(fullscreen, id)
		}
	}
	m.mu.Unlock()

	slices.Sort(fullscreen)
	for _, id := range fullscreen {
		m.handler.SetWidgetState(context.Background(), id, message.StateFullscreen, p.Width, p.Height)
	}
}
