package camera

import (
	"log"

	"github.com/ptphost/go-ptp/registry"
	"github.com/ptphost/go-ptp/session"
)

// RegistryFor returns the registry a connected device's USB vendor ID
// should be paired with: a vendor overlay merged over the standard PTP
// table, or the bare standard table for anything unrecognized.
func RegistryFor(vendorID uint16, littleEndian bool) *registry.Registry {
	switch vendorID {
	case VendorIDSony:
		return registry.Sony(littleEndian)
	case VendorIDNikon:
		return registry.Nikon(littleEndian)
	case VendorIDCanon:
		return registry.Canon(littleEndian)
	default:
		return registry.Standard(littleEndian)
	}
}

// NewForVendor builds a Camera over an already-open session engine, selecting
// both the registry and the VendorHooks for the given USB vendor ID in
// one call — the facade spec.md §4.10 describes over one transport
// connection.
func NewForVendor(e *session.Engine, vendorID uint16, littleEndian bool, logger *log.Logger) *Camera {
	return New(e, RegistryFor(vendorID, littleEndian), vendorID, logger)
}
