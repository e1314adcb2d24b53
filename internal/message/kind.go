package message

import "fmt"

// Kind tags a Message. Commands flow host -> worker, events flow
// worker -> host.
type Kind uint16

const (
	KindUnknown Kind = iota

	KindSetState
	KindSetTitle
	KindSetAttributes

	KindPointerMotion
	KindPointerButton
	KindPointerAxis
	KindPointerEnter
	KindPointerLeave
	KindKey
	KindOutputSize
	KindCloseWidget
)

var kindNames = map[Kind]string{
	KindSetState:      "SetState",
	KindSetTitle:      "SetTitle",
	KindSetAttributes: "SetAttributes",
	KindPointerMotion: "PointerMotion",
	KindPointerButton: "PointerButton",
	KindPointerAxis:   "PointerAxis",
	KindPointerEnter:  "PointerEnter",
	KindPointerLeave:  "PointerLeave",
	KindKey:           "Key",
	KindOutputSize:    "OutputSizeChanged",
	KindCloseWidget:   "CloseWidget",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

func (k Kind) IsCommand() bool {
	return k >= KindSetState && k <= KindSetAttributes
}

func (k Kind) IsEvent() bool {
	return k >= KindPointerMotion && k <= KindCloseWidget
}
