// Package camera implements the high-level camera contract (§4.8) and
// its Sony/Nikon/Canon specializations (§4.9) on top of a session.Engine.
// A Camera is a registry plus a small VendorHooks bundle; vendor behavior
// is plugged in at construction time rather than through a type
// hierarchy, generalizing the teacher's VendorExtensions pattern.
package camera

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/ptphost/go-ptp/ptperr"
	"github.com/ptphost/go-ptp/registry"
	"github.com/ptphost/go-ptp/session"
	"github.com/ptphost/go-ptp/wire"
)

// defaultSessionID is used by any camera that does not randomize its own
// (Sony randomizes; see sony.go).
const defaultSessionID = 1

// Camera is the generic PTP camera: a session engine, the registry that
// names its operations/properties/events, and the vendor hooks that
// override the handful of points where behavior diverges.
type Camera struct {
	log      *log.Logger
	engine   *session.Engine
	registry *registry.Registry
	hooks    *VendorHooks

	mu              sync.Mutex
	deviceInfo      *wire.DeviceInfo
	liveViewEnabled bool

	// Canon-only state; unused by other vendors.
	canonMu                 sync.Mutex
	canonPropertyCache      map[uint16]uint32
	canonAllowedValuesCache map[uint16][]uint32
	canonPollCancel         context.CancelFunc
	canonPollPaused         bool
}

// New builds a Camera over an already-open session.Engine, dispatching
// vendor behavior by USB vendor ID.
func New(e *session.Engine, r *registry.Registry, vendorID uint16, logger *log.Logger) *Camera {
	if logger == nil {
		logger = log.New(os.Stderr, "camera: ", log.LstdFlags)
	}
	return &Camera{
		log:                     logger,
		engine:                  e,
		registry:                r,
		hooks:                   hooksFor(vendorID),
		canonPropertyCache:      make(map[uint16]uint32),
		canonAllowedValuesCache: make(map[uint16][]uint32),
	}
}

// Connect opens a session and performs any vendor-specific
// authentication handshake.
func (c *Camera) Connect(ctx context.Context) error {
	return c.hooks.connect(ctx, c)
}

// Disconnect stops any vendor background polling and closes the session.
func (c *Camera) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	if c.canonPollCancel != nil {
		c.canonPollCancel()
		c.canonPollCancel = nil
	}
	c.mu.Unlock()
	return c.engine.CloseSession(ctx)
}

// Send executes op's three-phase transaction and, when the operation
// declares a data codec and an out-bound data phase, decodes the result
// into a typed value — §4.8's send algorithm.
func (c *Camera) Send(ctx context.Context, opName string, params []uint32, dataIn []byte, maxDataLength int) (*session.Result, interface{}, error) {
	op, err := c.registry.OperationByName(opName)
	if err != nil {
		return nil, nil, err
	}
	res, err := c.engine.SendOperation(ctx, opName, params, dataIn, maxDataLength)
	if err != nil {
		return nil, nil, err
	}
	if res.ResponseCode != registry.RespOK {
		resp, _ := c.registry.ResponseByCode(res.ResponseCode)
		return res, nil, &ptperr.PtpError{Kind: ptperr.PtpResponseError, ResponseCode: res.ResponseCode, ResponseName: resp.Name, Params: res.Params}
	}
	var decoded interface{}
	if op.DataDirection == registry.DataOut && op.DataCodec != nil {
		if decoded, err = op.DataCodec.DecodeDataset(res.Data); err != nil {
			return res, nil, err
		}
	}
	return res, decoded, nil
}

// Get returns the named property's current value via the vendor's
// property-read hook.
func (c *Camera) Get(ctx context.Context, propName string) (interface{}, error) {
	prop, err := c.registry.PropertyByName(propName)
	if err != nil {
		return nil, err
	}
	return c.hooks.get(ctx, c, prop)
}

// Set assigns the named property's value via the vendor's property-write
// hook.
func (c *Camera) Set(ctx context.Context, propName string, value interface{}) error {
	prop, err := c.registry.PropertyByName(propName)
	if err != nil {
		return err
	}
	return c.hooks.set(ctx, c, prop, value)
}

// On registers a handler for the named event.
func (c *Camera) On(eventName string, handler func(params []uint32)) {
	c.engine.On(eventName, handler)
}

// Off removes all handlers registered for the named event.
func (c *Camera) Off(eventName string) {
	c.engine.Off(eventName)
}

// GetAperture, GetIso and GetShutterSpeed are the three convenience
// accessors spec.md names explicitly; all three funnel through Get so
// vendor overrides (Canon's event-cache read, Sony's SDIO read) apply
// uniformly.
func (c *Camera) GetAperture(ctx context.Context) (interface{}, error) {
	return c.Get(ctx, c.hooks.apertureProperty)
}

func (c *Camera) GetIso(ctx context.Context) (interface{}, error) {
	return c.Get(ctx, c.hooks.isoProperty)
}

func (c *Camera) GetShutterSpeed(ctx context.Context) (interface{}, error) {
	return c.Get(ctx, c.hooks.shutterProperty)
}

// CaptureImage triggers a capture via the vendor hook.
func (c *Camera) CaptureImage(ctx context.Context) (*CaptureResult, error) {
	return c.hooks.captureImage(ctx, c)
}

// CaptureLiveView returns one live-view frame via the vendor hook.
func (c *Camera) CaptureLiveView(ctx context.Context) (*LiveViewFrame, error) {
	return c.hooks.captureLiveView(ctx, c)
}

// StartRecording begins movie recording via the vendor hook.
func (c *Camera) StartRecording(ctx context.Context) error {
	return c.hooks.startRecording(ctx, c)
}

// StopRecording ends movie recording via the vendor hook.
func (c *Camera) StopRecording(ctx context.Context) error {
	return c.hooks.stopRecording(ctx, c)
}

// GetObject retrieves one object's bytes, chunked by vendor large-object
// operations when the vendor hook overrides it.
func (c *Camera) GetObject(ctx context.Context, handle uint32, size uint32) (*ObjectResult, error) {
	return c.hooks.getObject(ctx, c, handle, size)
}

// ListObjects walks GetStorageIDs -> GetStorageInfo -> GetObjectHandles
// -> GetObjectInfo, returning a nested map keyed by storage ID.
func (c *Camera) ListObjects(ctx context.Context) (map[uint32]*StorageListing, error) {
	_, decoded, err := c.Send(ctx, "GetStorageIDs", nil, nil, 0)
	if err != nil {
		return nil, err
	}
	storageIDs, err := decodeU32Array(decoded)
	if err != nil {
		return nil, err
	}

	result := make(map[uint32]*StorageListing, len(storageIDs))
	for _, storageID := range storageIDs {
		_, infoRaw, err := c.Send(ctx, "GetStorageInfo", []uint32{storageID}, nil, 0)
		if err != nil {
			return nil, err
		}
		info, ok := infoRaw.(*wire.StorageInfo)
		if !ok {
			return nil, fmt.Errorf("camera: GetStorageInfo returned unexpected type %T", infoRaw)
		}

		_, handlesRaw, err := c.Send(ctx, "GetObjectHandles", []uint32{storageID, 0, 0}, nil, 0)
		if err != nil {
			return nil, err
		}
		handles, err := decodeU32Array(handlesRaw)
		if err != nil {
			return nil, err
		}

		objects := make(map[uint32]*wire.ObjectInfo, len(handles))
		for _, h := range handles {
			_, objRaw, err := c.Send(ctx, "GetObjectInfo", []uint32{h}, nil, 0)
			if err != nil {
				return nil, err
			}
			oi, ok := objRaw.(*wire.ObjectInfo)
			if !ok {
				return nil, fmt.Errorf("camera: GetObjectInfo returned unexpected type %T", objRaw)
			}
			objects[h] = oi
		}

		result[storageID] = &StorageListing{Info: info, Objects: objects}
	}
	return result, nil
}

func decodeU32Array(raw interface{}) ([]uint32, error) {
	buf, ok := raw.([]byte)
	if !ok {
		return nil, fmt.Errorf("camera: expected raw bytes for u32 array, got %T", raw)
	}
	r := wire.NewReader(buf, wire.LittleEndian)
	return r.ReadU32Array()
}

// genericConnect opens session 1 and caches DeviceInfo.
func genericConnect(ctx context.Context, c *Camera) error {
	if err := c.engine.OpenSession(ctx, defaultSessionID); err != nil {
		return err
	}
	_, decoded, err := c.Send(ctx, "GetDeviceInfo", nil, nil, 0)
	if err != nil {
		return err
	}
	if info, ok := decoded.(*wire.DeviceInfo); ok {
		c.mu.Lock()
		c.deviceInfo = info
		c.mu.Unlock()
	}
	return nil
}

func genericGet(ctx context.Context, c *Camera, prop *registry.Property) (interface{}, error) {
	_, decoded, err := c.Send(ctx, "GetDevicePropValue", []uint32{uint32(prop.Code)}, nil, 0)
	if err != nil {
		return nil, err
	}
	raw, ok := decoded.([]byte)
	if !ok {
		return nil, fmt.Errorf("camera: GetDevicePropValue returned unexpected type %T", decoded)
	}
	r := wire.NewReader(raw, c.order())
	return prop.Codec.Decode(r)
}

func genericSet(ctx context.Context, c *Camera, prop *registry.Property, value interface{}) error {
	w := wire.NewWriter(c.order())
	if err := prop.Codec.Encode(w, value); err != nil {
		return err
	}
	_, _, err := c.Send(ctx, "SetDevicePropValue", []uint32{uint32(prop.Code)}, w.Bytes(), 0)
	return err
}

// order returns the byte order the camera's registry was built for. PTP
// over USB is little-endian in practice; the registry's flag exists so a
// non-USB transport binding could reuse the same tables.
func (c *Camera) order() wire.Order {
	if c.registry.LittleEndian {
		return wire.LittleEndian
	}
	return wire.BigEndian
}

// genericCaptureImage issues InitiateCapture and waits for the next
// ObjectAdded event, matching the standard PTP capture flow used when no
// vendor-specific capture sequence applies.
func genericCaptureImage(ctx context.Context, c *Camera) (*CaptureResult, error) {
	handleCh := make(chan uint32, 1)
	c.engine.On("ObjectAdded", func(params []uint32) {
		if len(params) > 0 {
			select {
			case handleCh <- params[0]:
			default:
			}
		}
	})
	defer c.engine.Off("ObjectAdded")

	if _, _, err := c.Send(ctx, "InitiateCapture", []uint32{0, 0}, nil, 0); err != nil {
		return nil, &ptperr.VendorError{Kind: ptperr.VendorCaptureFailed, Vendor: "generic", Err: err}
	}

	select {
	case handle := <-handleCh:
		return &CaptureResult{ObjectHandle: handle}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// genericCaptureLiveView: standard PTP has no live-view operation; only
// Sony's vendor extension defines one.
func genericCaptureLiveView(ctx context.Context, c *Camera) (*LiveViewFrame, error) {
	return nil, &ptperr.VendorError{Kind: ptperr.VendorUnsupportedProperty, Vendor: "generic"}
}

// genericStartRecording/genericStopRecording: standard PTP has no movie
// recording operation; only Sony's vendor extension defines one.
func genericStartRecording(ctx context.Context, c *Camera) error {
	return &ptperr.VendorError{Kind: ptperr.VendorUnsupportedProperty, Vendor: "generic"}
}

func genericStopRecording(ctx context.Context, c *Camera) error {
	return &ptperr.VendorError{Kind: ptperr.VendorUnsupportedProperty, Vendor: "generic"}
}

// genericGetObject reads the whole object in one GetObject transaction.
func genericGetObject(ctx context.Context, c *Camera, handle uint32, size uint32) (*ObjectResult, error) {
	maxLen := int(size) + wire.ContainerHeaderSize
	_, decoded, err := c.Send(ctx, "GetObject", []uint32{handle}, nil, maxLen)
	if err != nil {
		return nil, err
	}
	data, ok := decoded.([]byte)
	if !ok {
		return nil, fmt.Errorf("camera: GetObject returned unexpected type %T", decoded)
	}
	return &ObjectResult{Data: data}, nil
}
