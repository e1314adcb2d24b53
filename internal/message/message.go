// Package message defines the records exchanged over the display channel:
// commands the host sends to the worker and input events the worker reports
// back. A Message is a tagged value; its payload is CBOR and is decoded by
// whoever handles the tag.
package message

import (
	"fmt"

	"github.com/ozonewl/dhost/internal/codec"
)

// ControlRoute is the route id every display-channel message travels on.
// Both ends use the same value.
const ControlRoute int32 = -1

// Message is immutable once built. Copies share the payload bytes, which no
// code in this repo writes to after construction.
type Message struct {
	Route   int32            `cbor:"route"`
	Kind    Kind             `cbor:"kind"`
	Unblock bool             `cbor:"unblock,omitempty"`
	Payload codec.RawMessage `cbor:"payload"`
}

// New encodes payload and tags it with kind.
func New(kind Kind, payload any) (Message, error) {
	data, err := codec.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encoding %s payload: %w", kind, err)
	}
	return Message{Route: ControlRoute, Kind: kind, Payload: data}, nil
}

// must is for the fixed payload structs below, whose encoding cannot fail.
func must(kind Kind, payload any) Message {
	m, err := New(kind, payload)
	if err != nil {
		panic(err)
	}
	return m
}

func NewSetState(p SetState) Message           { return must(KindSetState, p) }
func NewSetTitle(p SetTitle) Message           { return must(KindSetTitle, p) }
func NewSetAttributes(p SetAttributes) Message { return must(KindSetAttributes, p) }
func NewPointerMotion(p PointerMotion) Message { return must(KindPointerMotion, p) }
func NewPointerButton(p PointerButton) Message { return must(KindPointerButton, p) }
func NewPointerAxis(p PointerAxis) Message     { return must(KindPointerAxis, p) }
func NewPointerEnter(p PointerEnter) Message   { return must(KindPointerEnter, p) }
func NewPointerLeave(p PointerLeave) Message   { return must(KindPointerLeave, p) }
func NewKey(p Key) Message                     { return must(KindKey, p) }
func NewOutputSize(p OutputSize) Message       { return must(KindOutputSize, p) }
func NewCloseWidget(p CloseWidget) Message     { return must(KindCloseWidget, p) }

// WithUnblock returns a copy flagged so the worker never treats it as a
// synchronous call that the sender waits on.
func (m Message) WithUnblock() Message {
	m.Unblock = true
	return m
}

// Decode unmarshals the payload into v, which must point at the payload
// struct matching m.Kind.
func (m Message) Decode(v any) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("%s: empty payload", m.Kind)
	}
	if err := codec.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", m.Kind, err)
	}
	return nil
}

func (m Message) String() string {
	return fmt.Sprintf("%s(route=%d, %d bytes)", m.Kind, m.Route, len(m.Payload))
}
