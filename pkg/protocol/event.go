package protocol

// EventType identifies the type of client event.
type EventType uint8

const (
	EventClick    EventType = 0x01
	EventDblClick EventType = 0x02
	EventInput    EventType = 0x10
	EventChange   EventType = 0x11
	EventSubmit   EventType = 0x12
	EventFocus    EventType = 0x13
	EventBlur     EventType = 0x14
	EventKeyDown  EventType = 0x20
	EventKeyUp    EventType = 0x21
	EventCustom   EventType = 0xFF
)

// String returns the dom event name for the event type.
func (et EventType) String() string {
	switch et {
	case EventClick:
		return "click"
	case EventDblClick:
		return "dblclick"
	case EventInput:
		return "input"
	case EventChange:
		return "change"
	case EventSubmit:
		return "submit"
	case EventFocus:
		return "focus"
	case EventBlur:
		return "blur"
	case EventKeyDown:
		return "keydown"
	case EventKeyUp:
		return "keyup"
	default:
		return "custom"
	}
}

// Event is a client interaction as it crosses the wire.
type Event struct {
	Type    EventType
	NodeID  uint64 // Target node
	Value   string // Input value, when the event carries one
	Checked bool   // Checkbox state
	Key     string // Key name for keyboard events
}

// EncodeEvent encodes an event to bytes.
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	e.WriteByte(byte(ev.Type))
	e.WriteUvarint(ev.NodeID)
	e.WriteString(ev.Value)
	e.WriteBool(ev.Checked)
	e.WriteString(ev.Key)
	return e.Bytes()
}

// DecodeEvent decodes an event from bytes.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	ev := &Event{}

	t, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	ev.Type = EventType(t)

	if ev.NodeID, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if ev.Value, err = d.ReadString(); err != nil {
		return nil, err
	}
	if ev.Checked, err = d.ReadBool(); err != nil {
		return nil, err
	}
	if ev.Key, err = d.ReadString(); err != nil {
		return nil, err
	}

	return ev, nil
}
