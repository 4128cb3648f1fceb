// Package discovery enumerates and watches attached still-image-class
// USB cameras, wrapping usbtransport.Discover with a stable per-device
// identity so a caller can tell "the same camera, reconnected" apart
// from "a different camera that happens to share a VID/PID".
package discovery

import (
	"context"
	"log"
	"time"

	"github.com/google/gousb"
	"github.com/google/uuid"

	"github.com/ptphost/go-ptp/usbtransport"
)

// CameraDescriptor identifies one attached camera. InstanceID is a
// process-local UUID assigned to a (VendorID, ProductID, SerialNumber)
// tuple. Within one Watch it is stable across polls, so a caller can
// recognize the same physical device without relying on the OS's
// (sometimes reused) bus/address numbering; each List call assigns
// fresh IDs.
type CameraDescriptor struct {
	InstanceID   string
	VendorID     uint16
	ProductID    uint16
	SerialNumber string
	Manufacturer string
	Model        string

	raw usbtransport.Descriptor
}

// Transport connects to the underlying device and returns a ready
// usbtransport.Transport, per §4.2's connect contract.
func (d CameraDescriptor) Transport(logger *log.Logger) (*usbtransport.Transport, error) {
	return usbtransport.Connect(d.raw, logger)
}

// identityKey is the (VendorID, ProductID, SerialNumber) triple List
// and Watch key instance IDs and diffs by.
type identityKey struct {
	vendorID     uint16
	productID    uint16
	serialNumber string
}

func keyOf(d usbtransport.Descriptor) identityKey {
	return identityKey{d.VendorID, d.ProductID, d.SerialNumber}
}

// registry assigns stable InstanceIDs to identityKeys across the list
// calls that share it, so Watch's repeated polling recognizes the same
// physical device. List uses a new registry on every call.
type registry struct {
	ids map[identityKey]string
}

func newRegistry() *registry { return &registry{ids: make(map[identityKey]string)} }

func (r *registry) instanceID(k identityKey) string {
	if id, ok := r.ids[k]; ok {
		return id
	}
	id := uuid.NewString()
	r.ids[k] = id
	return id
}

// List enumerates attached still-image-class USB cameras matching
// filter (the zero value matches everything).
func List(usbCtx *gousb.Context, filter usbtransport.Filter) ([]CameraDescriptor, error) {
	return list(usbCtx, filter, newRegistry())
}

func list(usbCtx *gousb.Context, filter usbtransport.Filter, r *registry) ([]CameraDescriptor, error) {
	found, err := usbtransport.Discover(usbCtx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]CameraDescriptor, 0, len(found))
	for _, d := range found {
		out = append(out, CameraDescriptor{
			InstanceID:   r.instanceID(keyOf(d)),
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			SerialNumber: d.SerialNumber,
			Manufacturer: d.Manufacturer,
			Model:        d.Model,
			raw:          d,
		})
	}
	return out, nil
}

// WatchEvent is one change Watch observed between polls.
type WatchEvent struct {
	Added  bool // false means removed
	Camera CameraDescriptor
}

// diff reports Added/Removed events between two identity-keyed
// descriptor sets; the algorithm spec.md §4 leaves unspecified beyond
// "invoke callback when count or identities change" (see SPEC_FULL's
// SUPPLEMENTED FEATURES).
func diff(prev, current map[identityKey]CameraDescriptor) []WatchEvent {
	var events []WatchEvent
	for k, d := range current {
		if _, ok := prev[k]; !ok {
			events = append(events, WatchEvent{Added: true, Camera: d})
		}
	}
	for k, d := range prev {
		if _, ok := current[k]; !ok {
			events = append(events, WatchEvent{Added: false, Camera: d})
		}
	}
	return events
}

// Watch polls List every interval and emits an event each time a camera
// appears or disappears, diffing descriptor sets by (VendorID,
// ProductID, SerialNumber) — spec.md §4/§6's poll-based contract,
// "invoke callback when count or identities change". Watch blocks until
// ctx is cancelled; callers typically run it in its own goroutine.
func Watch(ctx context.Context, usbCtx *gousb.Context, filter usbtransport.Filter, interval time.Duration, onEvent func(WatchEvent)) error {
	r := newRegistry()
	seen := make(map[identityKey]CameraDescriptor)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	poll := func() error {
		current, err := list(usbCtx, filter, r)
		if err != nil {
			return err
		}
		currentKeys := make(map[identityKey]CameraDescriptor, len(current))
		for _, d := range current {
			currentKeys[keyOf(d.raw)] = d
		}
		for _, ev := range diff(seen, currentKeys) {
			onEvent(ev)
		}
		seen = currentKeys
		return nil
	}

	if err := poll(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := poll(); err != nil {
				return err
			}
		}
	}
}
