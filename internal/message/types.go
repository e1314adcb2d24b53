package message

// WidgetState is the visibility/size state requested for a widget.
type WidgetState uint8

const (
	StateShow WidgetState = iota + 1
	StateHide
	StateFullscreen
	StateMaximized
	StateMinimized
	StateRestore
	StateActive
	StateInactive
	StateResize
)

var stateNames = map[WidgetState]string{
	StateShow:       "show",
	StateHide:       "hide",
	StateFullscreen: "fullscreen",
	StateMaximized:  "maximized",
	StateMinimized:  "minimized",
	StateRestore:    "restore",
	StateActive:     "active",
	StateInactive:   "inactive",
	StateResize:     "resize",
}

func (s WidgetState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

type WidgetType uint8

const (
	TypeWindow WidgetType = iota + 1
	TypeWindowFrameless
	TypePopup
	TypeTooltip
)

var typeNames = map[WidgetType]string{
	TypeWindow:          "window",
	TypeWindowFrameless: "frameless",
	TypePopup:           "popup",
	TypeTooltip:         "tooltip",
}

func (t WidgetType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseWidgetType maps a configuration name onto a WidgetType.
func ParseWidgetType(name string) (WidgetType, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

type EventType uint8

const (
	MousePressed EventType = iota + 1
	MouseReleased
	KeyPressed
	KeyReleased
)

func (t EventType) String() string {
	switch t {
	case MousePressed:
		return "mouse-pressed"
	case MouseReleased:
		return "mouse-released"
	case KeyPressed:
		return "key-pressed"
	case KeyReleased:
		return "key-released"
	default:
		return "unknown"
	}
}

// EventFlags is a bitmask of pressed buttons and modifiers.
type EventFlags uint32

const (
	FlagShift EventFlags = 1 << iota
	FlagControl
	FlagAlt
	FlagLeftButton
	FlagMiddleButton
	FlagRightButton
)

// Widget identifies a UI surface. The host forwards it without validation.
type Widget = uint32

type SetState struct {
	Widget Widget      `cbor:"widget"`
	State  WidgetState `cbor:"state"`
	Width  uint32      `cbor:"width"`
	Height uint32      `cbor:"height"`
}

type SetTitle struct {
	Widget Widget `cbor:"widget"`
	Title  string `cbor:"title"`
}

type SetAttributes struct {
	Widget Widget     `cbor:"widget"`
	Parent Widget     `cbor:"parent"`
	X      uint32     `cbor:"x"`
	Y      uint32     `cbor:"y"`
	Type   WidgetType `cbor:"type"`
}

type PointerMotion struct {
	X float32 `cbor:"x"`
	Y float32 `cbor:"y"`
}

type PointerButton struct {
	Widget Widget     `cbor:"widget"`
	Type   EventType  `cbor:"type"`
	Flags  EventFlags `cbor:"flags"`
	X      float32    `cbor:"x"`
	Y      float32    `cbor:"y"`
}

type PointerAxis struct {
	X       float32 `cbor:"x"`
	Y       float32 `cbor:"y"`
	XOffset int32   `cbor:"xoffset"`
	YOffset int32   `cbor:"yoffset"`
}

type PointerEnter struct {
	Widget Widget  `cbor:"widget"`
	X      float32 `cbor:"x"`
	Y      float32 `cbor:"y"`
}

type PointerLeave struct {
	Widget Widget  `cbor:"widget"`
	X      float32 `cbor:"x"`
	Y      float32 `cbor:"y"`
}

type Key struct {
	Type      EventType `cbor:"type"`
	Code      uint32    `cbor:"code"`
	Modifiers uint32    `cbor:"modifiers"`
}

type OutputSize struct {
	Width  uint32 `cbor:"width"`
	Height uint32 `cbor:"height"`
}

type CloseWidget struct {
	Widget Widget `cbor:"widget"`
}
