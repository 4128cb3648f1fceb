package camera

import (
	"context"
	"log"
	"testing"

	"github.com/ptphost/go-ptp/registry"
	"github.com/ptphost/go-ptp/session"
	"github.com/ptphost/go-ptp/wire"
)

// fakeTransport implements the unexported session.transport interface
// structurally: Send records every container written, Receive replays a
// scripted sequence, OnEvent registers handlers fire can invoke later.
type fakeTransport struct {
	written  []*wire.Container
	replies  []*wire.Container
	next     int
	handlers map[uint16][]func(code uint16, transactionID uint32, params []uint32)

	// onSend fires synchronously after a matching command container is
	// recorded, letting a test emit an interrupt event at the exact
	// point a real device would raise it mid-transaction, with no
	// cross-goroutine synchronization needed.
	onSend map[uint16]func(transactionID uint32)
}

func newFakeTransport(replies ...*wire.Container) *fakeTransport {
	return &fakeTransport{
		replies:  replies,
		handlers: make(map[uint16][]func(uint16, uint32, []uint32)),
		onSend:   make(map[uint16]func(transactionID uint32)),
	}
}

func (f *fakeTransport) Send(ctx context.Context, c *wire.Container) error {
	f.written = append(f.written, c)
	if c.Type == wire.ContainerCommand {
		if hook, ok := f.onSend[c.Code]; ok {
			hook(c.TransactionID)
		}
	}
	return nil
}

func (f *fakeTransport) Receive(ctx context.Context, maxLength int) ([]byte, error) {
	if f.next >= len(f.replies) {
		return nil, errFakeTransportExhausted
	}
	c := f.replies[f.next]
	f.next++
	return c.Marshal(), nil
}

func (f *fakeTransport) OnEvent(code uint16, h func(code uint16, transactionID uint32, params []uint32)) {
	f.handlers[code] = append(f.handlers[code], h)
}

func (f *fakeTransport) Cancel(transactionID uint32) error { return nil }

func (f *fakeTransport) fire(code uint16, transactionID uint32, params []uint32) {
	for _, h := range f.handlers[code] {
		h(code, transactionID, params)
	}
}

type fakeTransportError string

func (e fakeTransportError) Error() string { return string(e) }

const errFakeTransportExhausted = fakeTransportError("fake transport: no more scripted replies")

func respOK(code uint16, txID uint32, params []uint32) *wire.Container {
	return &wire.Container{Type: wire.ContainerResponse, Code: code, TransactionID: txID, Payload: wire.EncodeParams(params)}
}

func testLogger() *log.Logger { return log.New(testWriter{}, "", 0) }

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func newGenericCamera(tr *fakeTransport) *Camera {
	reg := registry.Standard(true)
	engine := session.New(tr, reg, testLogger())
	return New(engine, reg, 0, testLogger())
}

func TestGenericConnectCachesDeviceInfo(t *testing.T) {
	w := wire.NewWriter(wire.LittleEndian)
	w.WriteU16(100)
	w.WriteU32(0)
	w.WriteU16(0)
	w.WritePTPString("")
	w.WriteU16(1)
	w.WriteU16Array([]uint16{registry.OpGetDeviceInfo})
	w.WriteU16Array(nil)
	w.WriteU16Array(nil)
	w.WriteU16Array(nil)
	w.WriteU16Array(nil)
	w.WritePTPString("Acme")
	w.WritePTPString("Model X")
	w.WritePTPString("1.0")
	w.WritePTPString("SN123")
	deviceInfoData := &wire.Container{Type: wire.ContainerData, Code: registry.OpGetDeviceInfo, TransactionID: 1, Payload: w.Bytes()}

	tr := newFakeTransport(
		respOK(registry.RespOK, 0, []uint32{1}),
		deviceInfoData,
		respOK(registry.RespOK, 1, nil),
	)
	c := newGenericCamera(tr)

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if c.deviceInfo == nil || c.deviceInfo.Model != "Model X" {
		t.Fatalf("deviceInfo not cached as expected: %+v", c.deviceInfo)
	}
}

func TestGenericGetAperture(t *testing.T) {
	w := wire.NewWriter(wire.LittleEndian)
	w.WriteU16(280) // f/2.8
	propData := &wire.Container{Type: wire.ContainerData, Code: registry.OpGetDevicePropValue, TransactionID: 0, Payload: w.Bytes()}

	tr := newFakeTransport(propData, respOK(registry.RespOK, 0, nil))
	c := newGenericCamera(tr)

	got, err := c.GetAperture(context.Background())
	if err != nil {
		t.Fatalf("GetAperture: %v", err)
	}
	if got != "f/2.8" {
		t.Errorf("GetAperture() = %v, want f/2.8", got)
	}
}

func TestGenericCaptureImageWaitsForObjectAdded(t *testing.T) {
	tr := newFakeTransport(respOK(registry.RespOK, 0, nil))
	tr.onSend[registry.OpInitiateCapture] = func(txID uint32) {
		tr.fire(registry.EvtObjectAdded, txID, []uint32{0x00010001})
	}
	c := newGenericCamera(tr)

	res, err := c.CaptureImage(context.Background())
	if err != nil {
		t.Fatalf("CaptureImage: %v", err)
	}
	if res.ObjectHandle != 0x00010001 {
		t.Errorf("ObjectHandle = %#x, want 0x10001", res.ObjectHandle)
	}
}
