// Package ipstub is a placeholder for the PTP/IP (IP-over-TCP) transport.
// The init-command/init-event handshake, the operation/data/event packet
// framing, and the probe keepalive are all real PTP/IP concepts, but
// wiring a second physical transport end-to-end is out of scope here —
// this package keeps just enough of the shape (packet type enum, a
// Transport that satisfies the same interface usbtransport does) so a
// caller can detect "PTP/IP requested" and fail informatively instead of
// the config layer silently falling back to USB.
package ipstub

import (
	"context"

	"github.com/ptphost/go-ptp/ptperr"
	"github.com/ptphost/go-ptp/wire"
)

// PacketType identifies a PTP/IP packet as carried in the 4-byte type
// field of every packet's header, ahead of the type-specific payload.
type PacketType uint32

const (
	PacketInvalid            PacketType = 0x00000000
	PacketInitCommandRequest PacketType = 0x00000001
	PacketInitCommandAck     PacketType = 0x00000002
	PacketInitEventRequest   PacketType = 0x00000003
	PacketInitEventAck       PacketType = 0x00000004
	PacketInitFail           PacketType = 0x00000005
	PacketOperationRequest   PacketType = 0x00000006
	PacketOperationResponse  PacketType = 0x00000007
	PacketEvent              PacketType = 0x00000008
	PacketStartData          PacketType = 0x00000009
	PacketData               PacketType = 0x0000000A
	PacketCancel             PacketType = 0x0000000B
	PacketEndData            PacketType = 0x0000000C
	PacketProbeRequest       PacketType = 0x0000000D
	PacketProbeResponse      PacketType = 0x0000000E
)

// Header is the 8-byte length+type prefix common to every PTP/IP packet.
type Header struct {
	Length uint32
	Type   PacketType
}

// Transport is an unconnectable stand-in for a TCP-based PTP/IP
// transport. Connect, Send, Receive and Cancel report
// ptperr.TransportNoPtpInterface (OnEvent does nothing, Close returns nil) so
// callers that branch on config.Profile.PreferredTransport == "ip" get
// a clear error rather than a silent USB fallback or a nil-pointer
// panic.
type Transport struct {
	Host string
}

// Connect reports that no PTP/IP transport is available.
func Connect(host string) (*Transport, error) {
	return nil, &ptperr.TransportError{
		Kind:     ptperr.TransportNoPtpInterface,
		Endpoint: host,
		Err:      errNotImplemented,
	}
}

func (t *Transport) Send(ctx context.Context, c *wire.Container) error {
	return &ptperr.TransportError{Kind: ptperr.TransportNoPtpInterface, Endpoint: t.Host, Err: errNotImplemented}
}

func (t *Transport) Receive(ctx context.Context, maxLength int) ([]byte, error) {
	return nil, &ptperr.TransportError{Kind: ptperr.TransportNoPtpInterface, Endpoint: t.Host, Err: errNotImplemented}
}

func (t *Transport) OnEvent(code uint16, h func(code uint16, transactionID uint32, params []uint32)) {
}

func (t *Transport) Cancel(transactionID uint32) error {
	return &ptperr.TransportError{Kind: ptperr.TransportNoPtpInterface, Endpoint: t.Host, Err: errNotImplemented}
}

func (t *Transport) Close() error {
	return nil
}

var errNotImplemented = ipNotImplementedError("ptpip: transport not implemented")

type ipNotImplementedError string

func (e ipNotImplementedError) Error() string { return string(e) }
