package host

import (
	"context"
	"testing"

	"github.com/ozonewl/dhost/internal/message"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestOnMessageReceivedDispatchesEachEventKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := NewMockEventSink(ctrl)
	hs := newHarness(t, sink)

	motion := message.PointerMotion{X: 1.5, Y: -2}
	button := message.PointerButton{Widget: 3, Type: message.MousePressed, Flags: message.FlagLeftButton | message.FlagShift, X: 10, Y: 20}
	axis := message.PointerAxis{X: 1, Y: 2, XOffset: -3, YOffset: 4}
	enter := message.PointerEnter{Widget: 5, X: 6, Y: 7}
	leave := message.PointerLeave{Widget: 5, X: 8, Y: 9}
	key := message.Key{Type: message.KeyPressed, Code: 0x41, Modifiers: uint32(message.FlagControl)}
	size := message.OutputSize{Width: 1920, Height: 1080}
	closeW := message.CloseWidget{Widget: 11}

	gomock.InOrder(
		sink.EXPECT().PointerMotion(motion),
		sink.EXPECT().PointerButton(button),
		sink.EXPECT().PointerAxis(axis),
		sink.EXPECT().PointerEnter(enter),
		sink.EXPECT().PointerLeave(leave),
		sink.EXPECT().Key(key),
		sink.EXPECT().OutputSizeChanged(size),
		sink.EXPECT().CloseWidget(closeW),
	)

	msgs := []message.Message{
		message.NewPointerMotion(motion),
		message.NewPointerButton(button),
		message.NewPointerAxis(axis),
		message.NewPointerEnter(enter),
		message.NewPointerLeave(leave),
		message.NewKey(key),
		message.NewOutputSize(size),
		message.NewCloseWidget(closeW),
	}
	hs.onLoop(t, func(ctx context.Context) {
		for _, m := range msgs {
			assert.True(t, hs.host.OnMessageReceived(ctx, m), m.Kind.String())
		}
	})
}

func TestOnMessageReceivedLeavesOtherKindsUnhandled(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := NewMockEventSink(ctrl)
	hs := newHarness(t, sink)

	msgs := []message.Message{
		message.NewSetState(message.SetState{Widget: 1, State: message.StateShow}),
		message.NewSetTitle(message.SetTitle{Widget: 1, Title: "t"}),
		message.NewSetAttributes(message.SetAttributes{Widget: 1}),
		{Route: message.ControlRoute, Kind: message.Kind(999), Payload: []byte{0xa0}},
		{Route: message.ControlRoute, Kind: message.KindUnknown},
	}
	hs.onLoop(t, func(ctx context.Context) {
		for _, m := range msgs {
			assert.False(t, hs.host.OnMessageReceived(ctx, m), m.Kind.String())
		}
	})
}

func TestOnMessageReceivedSwallowsMalformedPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := NewMockEventSink(ctrl)
	hs := newHarness(t, sink)

	bad := message.Message{Route: message.ControlRoute, Kind: message.KindPointerButton, Payload: []byte{0xff, 0x00}}
	empty := message.Message{Route: message.ControlRoute, Kind: message.KindKey}
	hs.onLoop(t, func(ctx context.Context) {
		assert.True(t, hs.host.OnMessageReceived(ctx, bad))
		assert.True(t, hs.host.OnMessageReceived(ctx, empty))
	})
}

func TestOnMessageReceivedOffLoopPanics(t *testing.T) {
	hs := newHarness(t, nil)
	msg := message.NewPointerMotion(message.PointerMotion{})

	assert.PanicsWithValue(t, "host: OnMessageReceived called off the channel loop", func() {
		hs.host.OnMessageReceived(context.Background(), msg)
	})
}

func TestOnMessageReceivedAfterCloseIsUnhandled(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := NewMockEventSink(ctrl)
	hs := newHarness(t, sink)
	assert.NoError(t, hs.host.Close(context.Background()))

	hs.onLoop(t, func(ctx context.Context) {
		assert.False(t, hs.host.OnMessageReceived(ctx, message.NewKey(message.Key{Code: 1})))
	})
}

type countingSink struct {
	NopSink
	keys []message.Key
}

func (s *countingSink) Key(k message.Key) { s.keys = append(s.keys, k) }

func TestTeeForwardsToEverySink(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	sink := Tee(a, NopSink{}, b)

	sink.Key(message.Key{Code: 7})
	sink.PointerMotion(message.PointerMotion{X: 1})

	assert.Equal(t, []message.Key{{Code: 7}}, a.keys)
	assert.Equal(t, a.keys, b.keys)
}
