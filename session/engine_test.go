package session

import (
	"bytes"
	"context"
	"testing"

	"github.com/ptphost/go-ptp/registry"
	"github.com/ptphost/go-ptp/wire"
)

// scriptedTransport records every container written and replays a
// scripted sequence of containers on Receive, mirroring the teacher's
// mock responder style (write-then-replay against a recorded script).
type scriptedTransport struct {
	written []*wire.Container
	replies []*wire.Container
	next    int

	handlers map[uint16][]func(code uint16, transactionID uint32, params []uint32)

	cancelledTxID uint32
	cancelCalled  bool
}

func newScriptedTransport(replies ...*wire.Container) *scriptedTransport {
	return &scriptedTransport{replies: replies, handlers: make(map[uint16][]func(uint16, uint32, []uint32))}
}

func (m *scriptedTransport) Send(ctx context.Context, c *wire.Container) error {
	m.written = append(m.written, c)
	return nil
}

func (m *scriptedTransport) Receive(ctx context.Context, maxLength int) ([]byte, error) {
	if m.next >= len(m.replies) {
		return nil, errNoMoreScriptedReplies
	}
	c := m.replies[m.next]
	m.next++
	return c.Marshal(), nil
}

func (m *scriptedTransport) OnEvent(code uint16, h func(code uint16, transactionID uint32, params []uint32)) {
	m.handlers[code] = append(m.handlers[code], h)
}

func (m *scriptedTransport) Cancel(transactionID uint32) error {
	m.cancelCalled = true
	m.cancelledTxID = transactionID
	return nil
}

func (m *scriptedTransport) fire(code uint16, transactionID uint32, params []uint32) {
	for _, h := range m.handlers[code] {
		h(code, transactionID, params)
	}
}

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

const errNoMoreScriptedReplies = sentinelError("scriptedTransport: no more scripted replies")

func respOK(code uint16, txID uint32, params []uint32) *wire.Container {
	return &wire.Container{Type: wire.ContainerResponse, Code: code, TransactionID: txID, Payload: wire.EncodeParams(params)}
}

func TestOpenSessionOK(t *testing.T) {
	tr := newScriptedTransport(respOK(registry.RespOK, 0, nil))
	e := New(tr, registry.Standard(true), nil)

	if err := e.OpenSession(context.Background(), 1); err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if !e.IsOpen() {
		t.Error("session not marked open")
	}
	if e.SessionID() != 1 {
		t.Errorf("SessionID = %d, want 1", e.SessionID())
	}

	if len(tr.written) != 1 {
		t.Fatalf("wrote %d containers, want 1", len(tr.written))
	}
	cmd := tr.written[0]
	if cmd.Code != registry.OpOpenSession {
		t.Errorf("command code = %#x, want %#x", cmd.Code, registry.OpOpenSession)
	}
	wantPayload := wire.EncodeParams([]uint32{1})
	if !bytes.Equal(cmd.Payload, wantPayload) {
		t.Errorf("payload = %x, want %x", cmd.Payload, wantPayload)
	}
}

func TestOpenSessionRecoversFromSessionAlreadyOpen(t *testing.T) {
	tr := newScriptedTransport(
		respOK(registry.RespSessionAlreadyOpen, 0, nil), // first OpenSession
		respOK(registry.RespOK, 1, nil),                 // CloseSession
		respOK(registry.RespOK, 2, nil),                 // second OpenSession
	)
	e := New(tr, registry.Standard(true), nil)

	if err := e.OpenSession(context.Background(), 5); err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if !e.IsOpen() {
		t.Error("session not marked open after recovery")
	}

	if len(tr.written) != 3 {
		t.Fatalf("wrote %d commands, want 3 (open, close, reopen)", len(tr.written))
	}
	if tr.written[0].Code != registry.OpOpenSession {
		t.Errorf("command 0 = %#x, want OpenSession", tr.written[0].Code)
	}
	if tr.written[1].Code != registry.OpCloseSession {
		t.Errorf("command 1 = %#x, want CloseSession", tr.written[1].Code)
	}
	if tr.written[2].Code != registry.OpOpenSession {
		t.Errorf("command 2 = %#x, want OpenSession", tr.written[2].Code)
	}
}

func TestTransactionIDsAreMonotonic(t *testing.T) {
	tr := newScriptedTransport(
		respOK(registry.RespOK, 0, nil),
		respOK(registry.RespOK, 1, nil),
		respOK(registry.RespOK, 2, nil),
	)
	e := New(tr, registry.Standard(true), nil)
	ctx := context.Background()

	if err := e.OpenSession(ctx, 1); err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if _, err := e.SendOperation(ctx, "GetDeviceInfo", nil, nil, 0); err == nil {
		t.Fatal("expected error: GetDeviceInfo has a data phase but none was scripted")
	}

	ids := make([]uint32, len(tr.written))
	for i, c := range tr.written {
		ids[i] = c.TransactionID
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Errorf("transaction ids not strictly increasing: %v", ids)
		}
	}
}

func TestCloseSessionTreatsSessionNotOpenAsSuccess(t *testing.T) {
	tr := newScriptedTransport(respOK(registry.RespSessionNotOpen, 0, nil))
	e := New(tr, registry.Standard(true), nil)

	if err := e.CloseSession(context.Background()); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}
	if e.IsOpen() {
		t.Error("session still marked open after CloseSession")
	}
}

func TestEventSubscribersReceiveParams(t *testing.T) {
	tr := newScriptedTransport()
	e := New(tr, registry.Standard(true), nil)

	var got []uint32
	e.On("ObjectAdded", func(params []uint32) {
		got = params
	})

	tr.fire(registry.EvtObjectAdded, 0, []uint32{0xABCD})

	if len(got) != 1 || got[0] != 0xABCD {
		t.Errorf("got %v, want [0xABCD]", got)
	}
}

func TestGetDeviceInfoDataPhase(t *testing.T) {
	info := wire.NewWriter(wire.LittleEndian)
	info.WriteU16(100)
	info.WriteU32(0x00000006) // vendor extension id
	info.WriteU16(100)
	info.WritePTPString("") // vendor extension desc (string length 0)
	info.WriteU16(1)
	info.WriteU16Array(nil) // operations supported
	info.WriteU16Array(nil) // events supported
	info.WriteU16Array(nil) // properties supported
	info.WriteU16Array(nil) // capture formats
	info.WriteU16Array(nil) // image formats
	info.WritePTPString("Acme")
	info.WritePTPString("Camera")
	info.WriteU16(1)
	info.WritePTPString("SN123")

	tr := newScriptedTransport(
		&wire.Container{Type: wire.ContainerData, Code: registry.OpGetDeviceInfo, TransactionID: 0, Payload: info.Bytes()},
		respOK(registry.RespOK, 0, nil),
	)
	e := New(tr, registry.Standard(true), nil)

	res, err := e.SendOperation(context.Background(), "GetDeviceInfo", nil, nil, 0)
	if err != nil {
		t.Fatalf("SendOperation: %v", err)
	}
	if res.ResponseCode != registry.RespOK {
		t.Errorf("ResponseCode = %#x, want OK", res.ResponseCode)
	}
	if len(res.Data) == 0 {
		t.Error("expected non-empty data phase payload")
	}
}

func TestCancelDelegatesToTransport(t *testing.T) {
	tr := newScriptedTransport()
	e := New(tr, registry.Standard(true), nil)

	if err := e.Cancel(42); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !tr.cancelCalled || tr.cancelledTxID != 42 {
		t.Errorf("cancel not delegated correctly: called=%v txID=%d", tr.cancelCalled, tr.cancelledTxID)
	}
}
