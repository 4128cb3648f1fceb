// Package usbtransport implements the PTP USB still-image class
// transport: device discovery, interface claim, the bulk send/receive
// transaction primitives with STALL recovery, the interrupt-endpoint
// event loop, and the class-specific control requests.
package usbtransport

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/gousb"

	"github.com/ptphost/go-ptp/ptperr"
	"github.com/ptphost/go-ptp/wire"
)

// Still-image USB class and subclass, PIMA 15740 §D.2.
const (
	StillImageClass    = 0x06
	StillImageSubclass = 0x01
)

// Class-specific control requests, PIMA 15740 §D.5.2.
const (
	reqCancel              = 0x64
	reqGetExtendedEventData = 0x65
	reqDeviceReset          = 0x66
	reqGetDeviceStatus      = 0x67
)

// bmRequestType values: Class type, Interface recipient.
const (
	reqTypeClassInterfaceOut = 0x21 // host -> device
	reqTypeClassInterfaceIn  = 0xA1 // device -> host
)

// Standard CLEAR_FEATURE(ENDPOINT_HALT), recipient endpoint.
const (
	stdReqClearFeature  = 0x01
	stdFeatureEndpointHalt = 0x00
	reqTypeStdEndpointOut  = 0x02
)

const (
	bulkInTimeout  = 5 * time.Second
	stallPollDelay = 50 * time.Millisecond
	stallPollTries = 10
)

// CancellationCode is the fixed PTP cancel transaction event code carried
// in the Cancel Request payload.
const CancellationCode uint16 = 0x4001

// DeviceStatus is the dataset returned by GetDeviceStatus.
type DeviceStatus struct {
	Code   uint16
	Params []uint32
}

// EventHandler receives one interrupt-endpoint event.
type EventHandler func(code uint16, transactionID uint32, params []uint32)

// Descriptor identifies one discovered still-image-class USB device.
type Descriptor struct {
	VendorID     uint16
	ProductID    uint16
	SerialNumber string
	Manufacturer string
	Model        string

	intfNum int
	altNum  int
	dev     *gousb.Device
}

// Filter narrows Discover to devices matching the given, optional fields.
type Filter struct {
	VendorID     uint16
	ProductID    uint16
	SerialNumber string
}

func (f Filter) matches(d Descriptor) bool {
	if f.VendorID != 0 && f.VendorID != d.VendorID {
		return false
	}
	if f.ProductID != 0 && f.ProductID != d.ProductID {
		return false
	}
	if f.SerialNumber != "" && f.SerialNumber != d.SerialNumber {
		return false
	}
	return true
}

// Discover enumerates attached still-image-class USB devices through the
// caller's gousb.Context, which the caller owns and must close once all
// returned descriptors are no longer needed (Connect and
// Descriptor.Close both leave the Context alone).
func Discover(ctx *gousb.Context, filter Filter) ([]Descriptor, error) {
	var found []Descriptor
	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		intfNum, altNum, ok := findStillImageInterface(desc)
		if !ok {
			return false
		}
		_ = intfNum
		_ = altNum
		return true
	})
	if err != nil {
		return nil, &ptperr.TransportError{Kind: ptperr.TransportIoError, Err: err}
	}

	for _, dev := range devs {
		intfNum, altNum, ok := findStillImageInterface(dev.Desc)
		if !ok {
			dev.Close()
			continue
		}
		d := Descriptor{
			VendorID:  uint16(dev.Desc.Vendor),
			ProductID: uint16(dev.Desc.Product),
			intfNum:   intfNum,
			altNum:    altNum,
			dev:       dev,
		}
		if s, err := dev.SerialNumber(); err == nil {
			d.SerialNumber = s
		}
		if m, err := dev.Manufacturer(); err == nil {
			d.Manufacturer = m
		}
		if p, err := dev.Product(); err == nil {
			d.Model = p
		}
		if !filter.matches(d) {
			dev.Close()
			continue
		}
		found = append(found, d)
	}
	return found, nil
}

// Close releases the underlying device handle without claiming a
// transport. Used when a Descriptor from Discover is not connected.
func (d Descriptor) Close() {
	if d.dev != nil {
		d.dev.Close()
	}
}

func findStillImageInterface(desc *gousb.DeviceDesc) (intfNum, altNum int, ok bool) {
	for _, cfg := range desc.Configs {
		for num, intf := range cfg.Interfaces {
			for _, alt := range intf.AltSettings {
				if alt.Class == gousb.Class(StillImageClass) && alt.SubClass == gousb.Class(StillImageSubclass) {
					return num, alt.Alternate, true
				}
			}
		}
	}
	return 0, 0, false
}

// bulkInEndpoint and bulkOutEndpoint are the minimal io.Reader/io.Writer
// surfaces Transport needs from a *gousb.InEndpoint/*gousb.OutEndpoint.
// Declaring them lets tests substitute a scripted fake endpoint without
// a real USB device, matching the mock-transport testing style spec.md
// §8 describes.
type bulkInEndpoint interface {
	Read(p []byte) (int, error)
}

type bulkOutEndpoint interface {
	Write(p []byte) (int, error)
}

// controlRequester is the subset of *gousb.Device used for class and
// standard control requests.
type controlRequester interface {
	Control(rType, request uint8, val, idx uint16, data []byte) (int, error)
}

// Transport is an opened USB still-image class interface: claimed
// interface, bulk-in/bulk-out endpoints, and an optional interrupt-in
// endpoint feeding the event loop.
type Transport struct {
	log *log.Logger

	dev     *gousb.Device
	cfg     *gousb.Config
	intf    *gousb.Interface
	intfNum int

	bulkIn     bulkInEndpoint
	bulkOut    bulkOutEndpoint
	evtIn      bulkInEndpoint
	ctl        controlRequester
	bulkInAddr  byte
	bulkOutAddr byte
	evtInAddr   byte

	// txMu serializes bulk Send/Receive calls with each other and with the
	// interrupt loop's STALL recovery, per the
	// single-outstanding-transaction scheduling rule.
	txMu sync.Mutex

	handlersMu sync.Mutex
	handlers   map[uint16][]EventHandler

	stopEvents chan struct{}
	eventsDone chan struct{}

	closed bool
}

// newTransport builds a Transport directly from endpoint/control
// abstractions, bypassing device discovery. Used by tests to exercise
// Send/Receive/STALL recovery against scripted fakes.
func newTransport(bulkIn bulkInEndpoint, bulkOut bulkOutEndpoint, evtIn bulkInEndpoint, ctl controlRequester, logger *log.Logger) *Transport {
	if logger == nil {
		logger = log.New(os.Stderr, "usbtransport: ", log.LstdFlags)
	}
	return &Transport{
		log:         logger,
		bulkIn:      bulkIn,
		bulkOut:     bulkOut,
		evtIn:       evtIn,
		ctl:         ctl,
		bulkInAddr:  0x81,
		bulkOutAddr: 0x02,
		evtInAddr:   0x83,
		handlers:    make(map[uint16][]EventHandler),
	}
}

// Connect opens the descriptor's device, selects its first configuration
// (bConfigurationValue 1), claims
// the still-image interface and collects its endpoint triad.
func Connect(d Descriptor, logger *log.Logger) (*Transport, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "usbtransport: ", log.LstdFlags)
	}
	if err := d.dev.SetAutoDetach(true); err != nil {
		logger.Printf("SetAutoDetach: %v", err)
	}

	cfg, err := d.dev.Config(1)
	if err != nil {
		d.dev.Close()
		return nil, &ptperr.TransportError{Kind: ptperr.TransportIoError, Err: err}
	}
	intf, err := cfg.Interface(d.intfNum, d.altNum)
	if err != nil {
		cfg.Close()
		d.dev.Close()
		return nil, &ptperr.TransportError{Kind: ptperr.TransportNoPtpInterface, Err: err}
	}

	t := &Transport{
		log:      logger,
		dev:      d.dev,
		cfg:      cfg,
		intf:     intf,
		intfNum:  d.intfNum,
		ctl:      d.dev,
		handlers: make(map[uint16][]EventHandler),
	}

	for _, ep := range intf.Setting.Endpoints {
		switch {
		case ep.Direction == gousb.EndpointDirectionIn && ep.TransferType == gousb.TransferTypeBulk:
			in, err := intf.InEndpoint(ep.Number)
			if err == nil {
				t.bulkIn = in
				t.bulkInAddr = byte(ep.Address)
			}
		case ep.Direction == gousb.EndpointDirectionOut && ep.TransferType == gousb.TransferTypeBulk:
			out, err := intf.OutEndpoint(ep.Number)
			if err == nil {
				t.bulkOut = out
				t.bulkOutAddr = byte(ep.Address)
			}
		case ep.Direction == gousb.EndpointDirectionIn && ep.TransferType == gousb.TransferTypeInterrupt:
			evt, err := intf.InEndpoint(ep.Number)
			if err == nil {
				t.evtIn = evt
				t.evtInAddr = byte(ep.Address)
			}
		}
	}

	if t.bulkIn == nil || t.bulkOut == nil {
		t.Close()
		return nil, &ptperr.TransportError{Kind: ptperr.TransportNoPtpInterface}
	}

	if t.evtIn != nil {
		t.stopEvents = make(chan struct{})
		t.eventsDone = make(chan struct{})
		go t.runEventLoop()
	}

	return t, nil
}

// Close tears down the interrupt loop (if running), releases the
// interface, and closes the device. Safe to call more than once.
func (t *Transport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	if t.stopEvents != nil {
		close(t.stopEvents)
		<-t.eventsDone
	}
	if t.intf != nil {
		t.intf.Close()
	}
	if t.cfg != nil {
		t.cfg.Close()
	}
	if t.dev != nil {
		return t.dev.Close()
	}
	return nil
}

// OnEvent registers a handler invoked for every interrupt-endpoint event
// carrying the given operation/event code. The parameter is the
// unnamed function type (rather than EventHandler) so *Transport
// satisfies session.transport's identically-shaped OnEvent method
// structurally.
func (t *Transport) OnEvent(code uint16, h func(code uint16, transactionID uint32, params []uint32)) {
	t.handlersMu.Lock()
	defer t.handlersMu.Unlock()
	t.handlers[code] = append(t.handlers[code], h)
}

func (t *Transport) dispatchEvent(code uint16, transactionID uint32, params []uint32) {
	t.handlersMu.Lock()
	hs := append([]EventHandler(nil), t.handlers[code]...)
	t.handlersMu.Unlock()
	for _, h := range hs {
		h(code, transactionID, params)
	}
}

// Send writes the whole container to bulk-OUT, retrying exactly once
// after STALL recovery.
func (t *Transport) Send(ctx context.Context, c *wire.Container) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	return t.sendLocked(ctx, c.Marshal())
}

func (t *Transport) sendLocked(ctx context.Context, buf []byte) error {
	_, err := t.writeWithContext(ctx, buf)
	if isStall(err) {
		if rerr := t.recoverStall("out"); rerr != nil {
			return rerr
		}
		_, err = t.writeWithContext(ctx, buf)
	}
	if err != nil {
		if ctx.Err() == context.Canceled {
			return &ptperr.TransportError{Kind: ptperr.TransportCancelled, Endpoint: "out", Err: err}
		}
		return &ptperr.TransportError{Kind: ptperr.TransportIoError, Endpoint: "out", Err: err}
	}
	return nil
}

func (t *Transport) writeWithContext(ctx context.Context, buf []byte) (int, error) {
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := t.bulkOut.Write(buf)
		ch <- result{n, err}
	}()
	select {
	case r := <-ch:
		return r.n, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Receive reads up to maxLength bytes from bulk-IN, enforcing a 5-second
// per-read timeout and retrying once after STALL recovery.
func (t *Transport) Receive(ctx context.Context, maxLength int) ([]byte, error) {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	return t.receiveLocked(ctx, maxLength)
}

func (t *Transport) receiveLocked(ctx context.Context, maxLength int) ([]byte, error) {
	buf, err := t.readWithTimeout(ctx, maxLength)
	if isStall(err) {
		if rerr := t.recoverStall("in"); rerr != nil {
			return nil, rerr
		}
		buf, err = t.readWithTimeout(ctx, maxLength)
	}
	if err != nil {
		if err == context.DeadlineExceeded {
			return nil, &ptperr.TransportError{Kind: ptperr.TransportTimeout, Endpoint: "in"}
		}
		if ctx.Err() == context.Canceled {
			return nil, &ptperr.TransportError{Kind: ptperr.TransportCancelled, Endpoint: "in", Err: err}
		}
		return nil, &ptperr.TransportError{Kind: ptperr.TransportIoError, Endpoint: "in", Err: err}
	}
	return buf, nil
}

func (t *Transport) readWithTimeout(ctx context.Context, maxLength int) ([]byte, error) {
	rctx, cancel := context.WithTimeout(ctx, bulkInTimeout)
	defer cancel()

	buf := make([]byte, maxLength)
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		total := 0
		for total < maxLength {
			n, err := t.bulkIn.Read(buf[total:])
			total += n
			if err != nil || n == 0 {
				ch <- result{total, err}
				return
			}
			if total >= maxLength {
				break
			}
		}
		ch <- result{total, nil}
	}()
	select {
	case r := <-ch:
		if r.err != nil && r.err != io.EOF {
			return buf[:r.n], r.err
		}
		return buf[:r.n], nil
	case <-rctx.Done():
		return nil, rctx.Err()
	}
}

// isStall reports whether err represents a bulk endpoint STALL
// condition as surfaced by the underlying libusb transfer. libusb
// reports a stalled transfer as a pipe error; gousb forwards that as a
// plain error whose text names the condition, so it is matched here
// rather than on a concrete error type.
func isStall(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "stall") || strings.Contains(msg, "pipe error")
}

// recoverStall implements the PIMA 15740 §D.7.2.1 sequence: GetDeviceStatus,
// ClearHalt on the stalled side, then poll GetDeviceStatus until OK.
func (t *Transport) recoverStall(side string) error {
	if _, err := t.GetDeviceStatus(); err != nil {
		return &ptperr.TransportError{Kind: ptperr.TransportStallRecoveryFailed, Err: err}
	}

	if side == "in" || side == "out" {
		if err := t.clearHalt(t.bulkInAddr); err != nil {
			return &ptperr.TransportError{Kind: ptperr.TransportStallRecoveryFailed, Err: err}
		}
		if err := t.clearHalt(t.bulkOutAddr); err != nil {
			return &ptperr.TransportError{Kind: ptperr.TransportStallRecoveryFailed, Err: err}
		}
	} else if t.evtIn != nil {
		if err := t.clearHalt(t.evtInAddr); err != nil {
			return &ptperr.TransportError{Kind: ptperr.TransportStallRecoveryFailed, Err: err}
		}
	}

	for i := 0; i < stallPollTries; i++ {
		status, err := t.GetDeviceStatus()
		if err == nil && status.Code == 0x2001 {
			return nil
		}
		time.Sleep(stallPollDelay)
	}
	return &ptperr.TransportError{Kind: ptperr.TransportStallRecoveryFailed}
}

func (t *Transport) clearHalt(addr byte) error {
	_, err := t.ctl.Control(reqTypeStdEndpointOut, stdReqClearFeature, stdFeatureEndpointHalt, uint16(addr), nil)
	return err
}

// GetDeviceStatus issues class request 0x67 and parses the
// {length, code, params} dataset.
func (t *Transport) GetDeviceStatus() (*DeviceStatus, error) {
	buf := make([]byte, 64)
	n, err := t.ctl.Control(reqTypeClassInterfaceIn, reqGetDeviceStatus, 0, uint16(t.intfNum), buf)
	if err != nil {
		return nil, &ptperr.TransportError{Kind: ptperr.TransportIoError, Err: err}
	}
	r := wire.NewReader(buf[:n], wire.LittleEndian)
	if r.Remaining() < 4 {
		return nil, &ptperr.TransportError{Kind: ptperr.TransportIoError, Err: fmt.Errorf("short GetDeviceStatus reply")}
	}
	length, _ := r.ReadU16()
	code, _ := r.ReadU16()
	_ = length
	var params []uint32
	for r.Remaining() >= 4 {
		p, _ := r.ReadU32()
		params = append(params, p)
	}
	return &DeviceStatus{Code: code, Params: params}, nil
}

// Cancel issues class request 0x64 with the CancellationCode and the
// transaction ID of the outstanding operation.
func (t *Transport) Cancel(transactionID uint32) error {
	w := wire.NewWriter(wire.LittleEndian)
	w.WriteU16(CancellationCode)
	w.WriteU32(transactionID)
	_, err := t.ctl.Control(reqTypeClassInterfaceOut, reqCancel, 0, uint16(t.intfNum), w.Bytes())
	if err != nil {
		return &ptperr.TransportError{Kind: ptperr.TransportIoError, Err: err}
	}
	return t.recoverStall("")
}

// GetExtendedEventData issues class request 0x65 and returns the raw
// reply payload undecoded (vendor-specific shape).
func (t *Transport) GetExtendedEventData() ([]byte, error) {
	buf := make([]byte, 512)
	n, err := t.ctl.Control(reqTypeClassInterfaceIn, reqGetExtendedEventData, 0, uint16(t.intfNum), buf)
	if err != nil {
		return nil, &ptperr.TransportError{Kind: ptperr.TransportIoError, Err: err}
	}
	return buf[:n], nil
}

// DeviceReset issues class request 0x66.
func (t *Transport) DeviceReset() error {
	_, err := t.ctl.Control(reqTypeClassInterfaceOut, reqDeviceReset, 0, uint16(t.intfNum), nil)
	if err != nil {
		return &ptperr.TransportError{Kind: ptperr.TransportIoError, Err: err}
	}
	return nil
}

// runEventLoop is the persistent interrupt-IN reader. It parses each
// non-empty completion as an event container, invokes registered
// handlers, and re-arms; STALL triggers recovery and re-arm; the loop
// exits when stopEvents is closed.
func (t *Transport) runEventLoop() {
	defer close(t.eventsDone)
	buf := make([]byte, 64)
	for {
		select {
		case <-t.stopEvents:
			return
		default:
		}

		n, err := t.evtIn.Read(buf)
		if isStall(err) {
			t.txMu.Lock()
			rerr := t.recoverStall("evt")
			t.txMu.Unlock()
			if rerr != nil {
				t.log.Printf("event loop: stall recovery failed: %v", rerr)
				return
			}
			continue
		}
		if err != nil {
			select {
			case <-t.stopEvents:
				return
			default:
				t.log.Printf("event loop: read error: %v", err)
				continue
			}
		}
		if n == 0 {
			continue
		}

		c, err := wire.ParseContainer(buf[:n])
		if err != nil || c.Type != wire.ContainerEvent {
			continue
		}
		params := wire.DecodeParams(c.Payload)
		t.dispatchEvent(c.Code, c.TransactionID, params)
	}
}
