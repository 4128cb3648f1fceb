// Package ptperr collects the typed error variants shared across the
// transport, session and camera layers. Each variant is a concrete
// struct with a Kind enum and an Error() method so callers use
// errors.As instead of string matching; TransportError, SessionError and
// VendorError also Unwrap to the underlying error, PtpError wraps none.
package ptperr

import "fmt"

// TransportKind enumerates usbtransport.Transport failure modes.
type TransportKind int

const (
	TransportNotConnected TransportKind = iota
	TransportNoPtpInterface
	TransportStalled
	TransportStallRecoveryFailed
	TransportTimeout
	TransportCancelled
	TransportIoError
)

// TransportError reports a failure at the USB transport layer.
type TransportError struct {
	Kind     TransportKind
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case TransportNotConnected:
		return "transport: not connected"
	case TransportNoPtpInterface:
		return "transport: no PTP still-image interface found"
	case TransportStalled:
		return fmt.Sprintf("transport: endpoint %s stalled", e.Endpoint)
	case TransportStallRecoveryFailed:
		return "transport: STALL recovery failed"
	case TransportTimeout:
		return "transport: timeout"
	case TransportCancelled:
		return "transport: cancelled"
	case TransportIoError:
		return fmt.Sprintf("transport: i/o error: %v", e.Err)
	default:
		return "transport: unknown error"
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// PtpKind enumerates protocol-level (non-OK response) failure modes.
type PtpKind int

const (
	PtpResponseError PtpKind = iota
	PtpUnexpectedContainerType
	PtpTransactionIDMismatch
)

// PtpError reports a non-OK PTP response or a malformed container
// sequence observed during a transaction.
type PtpError struct {
	Kind         PtpKind
	ResponseCode uint16
	ResponseName string
	Params       []uint32
}

func (e *PtpError) Error() string {
	switch e.Kind {
	case PtpResponseError:
		return fmt.Sprintf("ptp: response %s (%#x) params=%v", e.ResponseName, e.ResponseCode, e.Params)
	case PtpUnexpectedContainerType:
		return "ptp: unexpected container type in transaction"
	case PtpTransactionIDMismatch:
		return "ptp: response transaction id does not match request"
	default:
		return "ptp: unknown protocol error"
	}
}

// SessionKind enumerates session.Engine failure modes.
type SessionKind int

const (
	SessionNotOpen SessionKind = iota
	SessionAlreadyOpenRecoveryFailed
	SessionOpenFailed
)

// SessionError reports a failure in session lifecycle management.
type SessionError struct {
	Kind SessionKind
	Err  error
}

func (e *SessionError) Error() string {
	switch e.Kind {
	case SessionNotOpen:
		return "session: not open"
	case SessionAlreadyOpenRecoveryFailed:
		return "session: SessionAlreadyOpen recovery failed"
	case SessionOpenFailed:
		return fmt.Sprintf("session: open failed: %v", e.Err)
	default:
		return "session: unknown error"
	}
}

func (e *SessionError) Unwrap() error { return e.Err }

// VendorKind enumerates camera vendor-specialization failure modes.
type VendorKind int

const (
	VendorAuthFailed VendorKind = iota
	VendorCaptureFailed
	VendorUnsupportedProperty
	VendorDeviceBusy
	VendorPropertyNotCached
	VendorStateStuck
)

// VendorError reports a failure specific to a vendor specialization
// (Sony auth, Canon busy/backoff, Nikon partial-object chunking).
type VendorError struct {
	Kind   VendorKind
	Vendor string
	Err    error
}

func (e *VendorError) Error() string {
	switch e.Kind {
	case VendorAuthFailed:
		return fmt.Sprintf("%s: authentication failed: %v", e.Vendor, e.Err)
	case VendorCaptureFailed:
		return fmt.Sprintf("%s: capture failed: %v", e.Vendor, e.Err)
	case VendorUnsupportedProperty:
		return fmt.Sprintf("%s: unsupported property", e.Vendor)
	case VendorDeviceBusy:
		return fmt.Sprintf("%s: device busy", e.Vendor)
	case VendorPropertyNotCached:
		return fmt.Sprintf("%s: property not cached", e.Vendor)
	case VendorStateStuck:
		return fmt.Sprintf("%s: device state did not converge: %v", e.Vendor, e.Err)
	default:
		return fmt.Sprintf("%s: unknown vendor error", e.Vendor)
	}
}

func (e *VendorError) Unwrap() error { return e.Err }
