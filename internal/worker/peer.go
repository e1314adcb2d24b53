// Package worker is a reference worker for the display channel. It speaks
// the wire protocol from the other end and answers commands with the
// events a real display would produce, which makes it useful for local
// runs and end-to-end tests.
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/ozonewl/dhost/internal/codec"
	"github.com/ozonewl/dhost/internal/message"
	"go.uber.org/zap"
)

type Config struct {
	Output message.OutputSize
}

type Peer struct {
	conn   net.Conn
	output message.OutputSize
	logger *zap.Logger

	enc    *codec.Encoder
	titles map[message.Widget]string
}

func NewPeer(conn net.Conn, cfg Config, logger *zap.Logger) *Peer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Peer{
		conn:   conn,
		output: cfg.Output,
		logger: logger.Named("worker"),
		enc:    codec.NewEncoder(conn),
		titles: make(map[message.Widget]string),
	}
}

// Run announces the output size, then serves commands until the host hangs
// up or ctx is cancelled. A clean hang-up returns nil.
func (p *Peer) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = p.conn.Close() })
	defer stop()
	defer func() { _ = p.conn.Close() }()

	if err := p.emit(message.NewOutputSize(p.output)); err != nil {
		return p.exitErr(ctx, err)
	}

	dec := codec.NewDecoder(p.conn)
	for {
		var msg message.Message
		if err := dec.Decode(&msg); err != nil {
			return p.exitErr(ctx, err)
		}
		if err := p.handle(msg); err != nil {
			return p.exitErr(ctx, err)
		}
	}
}

func (p *Peer) exitErr(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		p.logger.Debug("host disconnected", zap.Error(err))
		return nil
	}
	return err
}

func (p *Peer) emit(msg message.Message) error {
	if err := p.enc.Encode(msg); err != nil {
		return fmt.Errorf("sending %s: %w", msg.Kind, err)
	}
	return nil
}

func (p *Peer) handle(msg message.Message) error {
	if msg.Route != message.ControlRoute {
		p.logger.Warn("message on unexpected route", zap.Int32("route", msg.Route), zap.Stringer("kind", msg.Kind))
		return nil
	}

	switch msg.Kind {
	case message.KindSetState:
		var s message.SetState
		if err := msg.Decode(&s); err != nil {
			p.logger.Warn("dropping malformed command", zap.Error(err))
			return nil
		}
		return p.setState(s)
	case message.KindSetTitle:
		var s message.SetTitle
		if err := msg.Decode(&s); err != nil {
			p.logger.Warn("dropping malformed command", zap.Error(err))
			return nil
		}
		p.titles[s.Widget] = s.Title
		p.logger.Debug("title", zap.Uint32("widget", s.Widget), zap.String("title", s.Title))
	case message.KindSetAttributes:
		var s message.SetAttributes
		if err := msg.Decode(&s); err != nil {
			p.logger.Warn("dropping malformed command", zap.Error(err))
			return nil
		}
		p.logger.Debug("attributes",
			zap.Uint32("widget", s.Widget),
			zap.Uint32("parent", s.Parent),
			zap.Stringer("type", s.Type),
		)
	default:
		p.logger.Warn("unexpected message from host", zap.Stringer("kind", msg.Kind))
	}
	return nil
}

// setState plays a display: showing a widget puts the pointer over its
// centre, hiding it takes the pointer away, and a widget shown with no
// area is closed.
func (p *Peer) setState(s message.SetState) error {
	p.logger.Debug("state", zap.Uint32("widget", s.Widget), zap.Stringer("state", s.State))
	switch s.State {
	case message.StateShow, message.StateFullscreen:
		if s.Width == 0 || s.Height == 0 {
			delete(p.titles, s.Widget)
			return p.emit(message.NewCloseWidget(message.CloseWidget{Widget: s.Widget}))
		}
		return p.emit(message.NewPointerEnter(message.PointerEnter{
			Widget: s.Widget,
			X:      float32(s.Width) / 2,
			Y:      float32(s.Height) / 2,
		}))
	case message.StateHide:
		return p.emit(message.NewPointerLeave(message.PointerLeave{Widget: s.Widget}))
	}
	return nil
}
