package protocol

import "errors"

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 4

	// MaxPayloadSize is the maximum payload size (2^16 - 1 bytes).
	MaxPayloadSize = 65535
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameHandshake FrameType = 0x00 // Connection setup
	FrameEvent     FrameType = 0x01 // Client → Server events
	FramePatches   FrameType = 0x02 // Server → Client patches
	FrameControl   FrameType = 0x03 // Control messages (ping/pong)
	FrameError     FrameType = 0x05 // Error message
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameHandshake:
		return "Handshake"
	case FrameEvent:
		return "Event"
	case FramePatches:
		return "Patches"
	case FrameControl:
		return "Control"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrFrameTooShort    = errors.New("protocol: frame shorter than header")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
	ErrPayloadMismatch  = errors.New("protocol: payload length mismatch")
)

// Frame is a protocol frame: header plus payload.
//
// Wire format: 1 byte type, 1 byte flags (reserved), 2 bytes big-endian
// payload length, then the payload.
type Frame struct {
	Type    FrameType
	Flags   uint8
	Payload []byte
}

// Encode encodes the frame to bytes including the header.
func (f *Frame) Encode() ([]byte, error) {
	length := len(f.Payload)
	if length > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	buf := make([]byte, FrameHeaderSize+length)
	buf[0] = byte(f.Type)
	buf[1] = f.Flags
	buf[2] = byte(length >> 8)
	buf[3] = byte(length)
	copy(buf[FrameHeaderSize:], f.Payload)
	return buf, nil
}

// DecodeFrame decodes a frame from bytes.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < FrameHeaderSize {
		return nil, ErrFrameTooShort
	}

	ft := FrameType(data[0])
	switch ft {
	case FrameHandshake, FrameEvent, FramePatches, FrameControl, FrameError:
	default:
		return nil, ErrInvalidFrameType
	}

	length := int(data[2])<<8 | int(data[3])
	if len(data) != FrameHeaderSize+length {
		return nil, ErrPayloadMismatch
	}

	return &Frame{
		Type:    ft,
		Flags:   data[1],
		Payload: data[FrameHeaderSize:],
	}, nil
}
