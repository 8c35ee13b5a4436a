package protocol

import "errors"

// ControlType identifies the type of control message.
type ControlType uint8

const (
	ControlPing  ControlType = 0x01
	ControlPong  ControlType = 0x02
	ControlClose ControlType = 0x03
)

// ErrInvalidControl reports an unknown control type.
var ErrInvalidControl = errors.New("protocol: invalid control type")

// PingPong carries the sender's timestamp for latency measurement.
type PingPong struct {
	Timestamp uint64 // Unix milliseconds
}

// EncodeControl encodes a ping/pong control message.
func EncodeControl(ct ControlType, ts uint64) []byte {
	e := NewEncoder()
	e.WriteByte(byte(ct))
	e.WriteUvarint(ts)
	return e.Bytes()
}

// DecodeControl decodes a control message.
func DecodeControl(data []byte) (ControlType, *PingPong, error) {
	d := NewDecoder(data)

	t, err := d.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	ct := ControlType(t)
	switch ct {
	case ControlPing, ControlPong, ControlClose:
	default:
		return 0, nil, ErrInvalidControl
	}

	ts, err := d.ReadUvarint()
	if err != nil {
		return 0, nil, err
	}

	return ct, &PingPong{Timestamp: ts}, nil
}
