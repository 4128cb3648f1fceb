package camera

import (
	"context"
	"time"

	"github.com/ptphost/go-ptp/ptperr"
	"github.com/ptphost/go-ptp/registry"
	"github.com/ptphost/go-ptp/wire"
)

// canonEventPollInterval is how often the background poller drains
// GetEventData once push delivery is unavailable over this transport.
const canonEventPollInterval = 200 * time.Millisecond

const canonSetRetryLimit = 5
const canonSetRetryDelay = 100 * time.Millisecond

func canonHooks() *VendorHooks {
	return &VendorHooks{
		name:             "canon",
		apertureProperty: "Aperture",
		isoProperty:      "ISOSpeed",
		shutterProperty:  "ShutterSpeed",
		connect:          canonConnect,
		get:              canonGet,
		set:              canonSet,
		captureImage:     canonCaptureImage,
		captureLiveView:  canonCaptureLiveView,
		startRecording:   canonStartRecording,
		stopRecording:    canonStopRecording,
		getObject:        genericGetObject,
	}
}

// canonConnect opens a session, enables remote control and event mode,
// drains any events already queued, then starts a background poller that
// keeps canonPropertyCache/canonAllowedValuesCache current — Canon
// properties are never read synchronously (§4.9), so everything Get
// returns for this vendor comes from here.
func canonConnect(ctx context.Context, c *Camera) error {
	if err := c.engine.OpenSession(ctx, defaultSessionID); err != nil {
		return err
	}
	if _, _, err := c.Send(ctx, "SetRemoteMode", []uint32{1}, nil, 0); err != nil {
		return &ptperr.VendorError{Kind: ptperr.VendorAuthFailed, Vendor: "canon", Err: err}
	}
	if _, _, err := c.Send(ctx, "SetEventMode", []uint32{registry.CanonEventModePolled}, nil, 0); err != nil {
		return &ptperr.VendorError{Kind: ptperr.VendorAuthFailed, Vendor: "canon", Err: err}
	}

	if err := canonDrainEvents(ctx, c); err != nil {
		return &ptperr.VendorError{Kind: ptperr.VendorAuthFailed, Vendor: "canon", Err: err}
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.canonPollCancel = cancel
	c.mu.Unlock()
	go canonPollEvents(pollCtx, c)

	return nil
}

// canonDrainEvents issues GetEventData repeatedly until a batch comes
// back with no records, folding every record into the property/allowed-
// values caches. The records are not dispatched to event subscribers.
func canonDrainEvents(ctx context.Context, c *Camera) error {
	for {
		events, err := canonFetchEvents(ctx, c)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
	}
}

func canonPollEvents(ctx context.Context, c *Camera) {
	ticker := time.NewTicker(canonEventPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.canonMu.Lock()
			paused := c.canonPollPaused
			c.canonMu.Unlock()
			if paused {
				continue
			}
			// Errors here are transient (USB hiccup, device asleep);
			// the next tick retries. There is no caller to report to.
			_, _ = canonFetchEvents(ctx, c)
		}
	}
}

// canonFetchEvents drains one GetEventData batch and applies it to the
// caches, returning the decoded records for canonDrainEvents' emptiness
// check.
func canonFetchEvents(ctx context.Context, c *Camera) ([]wire.CanonEvent, error) {
	_, decoded, err := c.Send(ctx, "GetEventData", nil, nil, 0)
	if err != nil {
		return nil, err
	}
	events, ok := decoded.([]wire.CanonEvent)
	if !ok {
		return nil, nil
	}

	c.canonMu.Lock()
	for _, ev := range events {
		if ev.Changed != nil {
			c.canonPropertyCache[ev.Changed.PropCode] = ev.Changed.Value
		}
		if ev.Allowed != nil && len(ev.Allowed.Values) > 0 {
			c.canonAllowedValuesCache[ev.Allowed.PropCode] = ev.Allowed.Values
		}
	}
	c.canonMu.Unlock()

	return events, nil
}

// canonGet returns the cached value. If nothing is cached yet it asks the
// device to emit a fresh PropertyChanged event, then drains GetEventData
// itself every 20ms for up to two seconds until the value appears.
func canonGet(ctx context.Context, c *Camera, prop *registry.Property) (interface{}, error) {
	c.canonMu.Lock()
	raw, ok := c.canonPropertyCache[prop.Code]
	c.canonMu.Unlock()
	if ok {
		return decodeCanonCachedValue(prop, raw)
	}

	if _, _, err := c.Send(ctx, "CanonGetDevicePropValue", []uint32{uint32(prop.Code)}, nil, 0); err != nil {
		return nil, err
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := canonFetchEvents(ctx, c); err != nil {
			return nil, err
		}
		c.canonMu.Lock()
		raw, ok = c.canonPropertyCache[prop.Code]
		c.canonMu.Unlock()
		if ok {
			return decodeCanonCachedValue(prop, raw)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
	return nil, &ptperr.VendorError{Kind: ptperr.VendorPropertyNotCached, Vendor: "canon"}
}

func decodeCanonCachedValue(prop *registry.Property, raw uint32) (interface{}, error) {
	w := wire.NewWriter(wire.LittleEndian)
	w.WriteU32(raw)
	r := wire.NewReader(w.Bytes(), wire.LittleEndian)
	return prop.Codec.Decode(r)
}

// canonSet retries on DeviceBusy, which Canon cameras return while
// mirror/shutter mechanics are mid-cycle from a prior operation. On
// success it pauses the background poller, drains event data once to
// fold the resulting PropertyChanged into the cache deterministically,
// then resumes polling (§4.9) rather than leaving the cache stale until
// the next 200ms tick.
func canonSet(ctx context.Context, c *Camera, prop *registry.Property, value interface{}) error {
	w := wire.NewWriter(c.order())
	if err := prop.Codec.Encode(w, value); err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= canonSetRetryLimit; attempt++ {
		_, _, err := c.Send(ctx, "CanonSetDevicePropValue", []uint32{uint32(prop.Code)}, w.Bytes(), 0)
		if err == nil {
			return canonDrainAfterSet(ctx, c)
		}
		lastErr = err
		if ptpErr, ok := err.(*ptperr.PtpError); ok && ptpErr.ResponseCode == registry.RespDeviceBusy {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(canonSetRetryDelay):
			}
			continue
		}
		return err
	}
	return &ptperr.VendorError{Kind: ptperr.VendorDeviceBusy, Vendor: "canon", Err: lastErr}
}

// canonDrainAfterSet pauses the poller, drains one GetEventData batch,
// then resumes polling. The poller is resumed even if the drain fails.
func canonDrainAfterSet(ctx context.Context, c *Camera) error {
	c.canonMu.Lock()
	c.canonPollPaused = true
	c.canonMu.Unlock()

	_, err := canonFetchEvents(ctx, c)

	c.canonMu.Lock()
	c.canonPollPaused = false
	c.canonMu.Unlock()

	return err
}

// canonCaptureImage presses and releases the shutter in two stages
// (half, full) and returns immediately: Open Question 2 decided the
// resulting object arrives via the event stream (ObjectAdded, surfaced
// through the same subscriber mechanism as any other event), not the
// return value, matching the source's behavior here.
func canonCaptureImage(ctx context.Context, c *Camera) (*CaptureResult, error) {
	if _, _, err := c.Send(ctx, "RemoteReleaseOn", []uint32{registry.CanonReleaseStageHalfPress}, nil, 0); err != nil {
		return nil, &ptperr.VendorError{Kind: ptperr.VendorCaptureFailed, Vendor: "canon", Err: err}
	}
	if _, _, err := c.Send(ctx, "RemoteReleaseOn", []uint32{registry.CanonReleaseStageFullPress}, nil, 0); err != nil {
		return nil, &ptperr.VendorError{Kind: ptperr.VendorCaptureFailed, Vendor: "canon", Err: err}
	}
	if _, _, err := c.Send(ctx, "RemoteReleaseOff", []uint32{registry.CanonReleaseStageFullPress}, nil, 0); err != nil {
		return nil, &ptperr.VendorError{Kind: ptperr.VendorCaptureFailed, Vendor: "canon", Err: err}
	}
	if _, _, err := c.Send(ctx, "RemoteReleaseOff", []uint32{registry.CanonReleaseStageHalfPress}, nil, 0); err != nil {
		return nil, &ptperr.VendorError{Kind: ptperr.VendorCaptureFailed, Vendor: "canon", Err: err}
	}
	return &CaptureResult{}, nil
}

// canonCaptureLiveView is unimplemented: the registry's Canon table has
// no live-view streaming operation to ground a decode on.
func canonCaptureLiveView(ctx context.Context, c *Camera) (*LiveViewFrame, error) {
	return nil, &ptperr.VendorError{Kind: ptperr.VendorUnsupportedProperty, Vendor: "canon"}
}

// canonStartRecording/canonStopRecording are unimplemented: the Canon
// vendor table defines no movie-record control operation.
func canonStartRecording(ctx context.Context, c *Camera) error {
	return &ptperr.VendorError{Kind: ptperr.VendorUnsupportedProperty, Vendor: "canon"}
}

func canonStopRecording(ctx context.Context, c *Camera) error {
	return &ptperr.VendorError{Kind: ptperr.VendorUnsupportedProperty, Vendor: "canon"}
}
