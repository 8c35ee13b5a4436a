// Package protocol defines the binary wire format between a Grain server and
// its thin client: framed messages carrying tree patches downstream and user
// events upstream.
//
// The format is a compact hand-rolled binary encoding: a 4-byte frame header
// (type, flags, big-endian payload length) followed by varint-based payloads.
// Patches are batched per flush and carry a sequence number so the client can
// detect gaps.
package protocol
