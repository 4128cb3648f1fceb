package camera

import (
	"context"

	"github.com/ptphost/go-ptp/registry"
)

// VendorHooks bundles the handful of points where vendor behavior
// diverges from the generic PTP path: connection/authentication,
// property get/set, capture, live view and large-object retrieval.
// Every field defaults to the generic implementation; a vendor camera
// overrides only the hooks it needs, generalizing the teacher's
// VendorExtensions struct (one function-pointer bundle swapped wholesale
// at connect time, rather than a type hierarchy per vendor).
type VendorHooks struct {
	name string

	// apertureProperty/isoProperty/shutterProperty name the registry
	// property GetAperture/GetIso/GetShutterSpeed resolve through. They
	// differ from the standard PTP names on Canon, which only exposes
	// these through its own vendor property codes fed by the event cache.
	apertureProperty string
	isoProperty      string
	shutterProperty  string

	connect        func(ctx context.Context, c *Camera) error
	get            func(ctx context.Context, c *Camera, prop *registry.Property) (interface{}, error)
	set            func(ctx context.Context, c *Camera, prop *registry.Property, value interface{}) error
	captureImage   func(ctx context.Context, c *Camera) (*CaptureResult, error)
	captureLiveView func(ctx context.Context, c *Camera) (*LiveViewFrame, error)
	startRecording func(ctx context.Context, c *Camera) error
	stopRecording  func(ctx context.Context, c *Camera) error
	getObject      func(ctx context.Context, c *Camera, handle uint32, size uint32) (*ObjectResult, error)
}

// genericHooks is the PTP-standard behavior shared by any responder that
// does not match a known vendor USB ID.
func genericHooks() *VendorHooks {
	return &VendorHooks{
		name:             "generic",
		apertureProperty: "FNumber",
		isoProperty:      "ExposureIndex",
		shutterProperty:  "ExposureTime",
		connect:          genericConnect,
		get:              genericGet,
		set:              genericSet,
		captureImage:     genericCaptureImage,
		captureLiveView:  genericCaptureLiveView,
		startRecording:   genericStartRecording,
		stopRecording:    genericStopRecording,
		getObject:        genericGetObject,
	}
}

// hooksFor dispatches to a vendor's VendorHooks by USB vendor ID, falling
// back to the generic PTP behavior for anything unrecognized.
func hooksFor(vendorID uint16) *VendorHooks {
	switch vendorID {
	case VendorIDSony:
		return sonyHooks()
	case VendorIDNikon:
		return nikonHooks()
	case VendorIDCanon:
		return canonHooks()
	default:
		return genericHooks()
	}
}

// USB vendor IDs used for facade dispatch, spec.md §4.10/facade.
const (
	VendorIDSony  uint16 = 0x054C
	VendorIDNikon uint16 = 0x04B0
	VendorIDCanon uint16 = 0x04A9
)
