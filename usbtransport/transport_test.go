package usbtransport

import (
	"context"
	"errors"
	"testing"

	"github.com/ptphost/go-ptp/wire"
)

// fakeBulkOut returns STALL on the first Write, then succeeds.
type fakeBulkOut struct {
	calls int
	sizes []int
}

func (f *fakeBulkOut) Write(p []byte) (int, error) {
	f.calls++
	if f.calls == 1 {
		return 0, errors.New("libusb: pipe error")
	}
	f.sizes = append(f.sizes, len(p))
	return len(p), nil
}

// fakeControl answers GetDeviceStatus with a scripted code sequence and
// counts ClearHalt calls on each endpoint address.
type fakeControl struct {
	statusCodes  []uint16
	statusCalls  int
	clearHaltLog []byte
}

func (f *fakeControl) Control(rType, request uint8, val, idx uint16, data []byte) (int, error) {
	switch request {
	case reqGetDeviceStatus:
		code := f.statusCodes[f.statusCalls]
		if f.statusCalls < len(f.statusCodes)-1 {
			f.statusCalls++
		}
		w := wire.NewWriter(wire.LittleEndian)
		w.WriteU16(4)
		w.WriteU16(code)
		buf := w.Bytes()
		n := copy(data, buf)
		return n, nil
	case stdReqClearFeature:
		f.clearHaltLog = append(f.clearHaltLog, byte(idx))
		return 0, nil
	default:
		return 0, nil
	}
}

func TestSendRetriesOnceAfterStall(t *testing.T) {
	out := &fakeBulkOut{}
	ctl := &fakeControl{statusCodes: []uint16{0x2019, 0x2019, 0x2001}}
	tr := newTransport(nil, out, nil, ctl, nil)
	tr.bulkInAddr = 0x81
	tr.bulkOutAddr = 0x02

	c := &wire.Container{Type: wire.ContainerCommand, Code: 0x1002, TransactionID: 1, Payload: wire.EncodeParams([]uint32{1})}
	if err := tr.Send(context.Background(), c); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if out.calls != 2 {
		t.Errorf("bulk-out Write called %d times, want 2 (1 stall + 1 retry)", out.calls)
	}
	if len(out.sizes) != 1 {
		t.Fatalf("expected exactly one successful write, got %d", len(out.sizes))
	}
	if len(ctl.clearHaltLog) != 2 {
		t.Errorf("ClearHalt issued %d times, want 2 (bulk-in and bulk-out)", len(ctl.clearHaltLog))
	}
	if ctl.clearHaltLog[0] != tr.bulkInAddr || ctl.clearHaltLog[1] != tr.bulkOutAddr {
		t.Errorf("ClearHalt addresses = %v, want [%#x %#x]", ctl.clearHaltLog, tr.bulkInAddr, tr.bulkOutAddr)
	}
}

func TestGetDeviceStatusDecodesCodeAndParams(t *testing.T) {
	w := wire.NewWriter(wire.LittleEndian)
	w.WriteU16(12)
	w.WriteU16(0x2001)
	w.WriteU32(0xAABBCCDD)
	buf := w.Bytes()

	ctl := &stubControl{response: buf}
	tr := newTransport(nil, nil, nil, ctl, nil)

	status, err := tr.GetDeviceStatus()
	if err != nil {
		t.Fatalf("GetDeviceStatus: %v", err)
	}
	if status.Code != 0x2001 {
		t.Errorf("Code = %#x, want 0x2001", status.Code)
	}
	if len(status.Params) != 1 || status.Params[0] != 0xAABBCCDD {
		t.Errorf("Params = %v, want [0xAABBCCDD]", status.Params)
	}
}

type stubControl struct {
	response []byte
}

func (s *stubControl) Control(rType, request uint8, val, idx uint16, data []byte) (int, error) {
	n := copy(data, s.response)
	return n, nil
}

func TestCancelSendsCodeAndTransactionID(t *testing.T) {
	var got []byte
	ctl := &recordingControl{
		onControl: func(rType, request uint8, val, idx uint16, data []byte) (int, error) {
			if request == reqCancel {
				got = append([]byte(nil), data...)
			}
			if request == reqGetDeviceStatus {
				w := wire.NewWriter(wire.LittleEndian)
				w.WriteU16(4)
				w.WriteU16(0x2001)
				n := copy(data, w.Bytes())
				return n, nil
			}
			return 0, nil
		},
	}
	tr := newTransport(nil, nil, nil, ctl, nil)

	if err := tr.Cancel(0x00000007); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	r := wire.NewReader(got, wire.LittleEndian)
	code, _ := r.ReadU16()
	txID, _ := r.ReadU32()
	if code != CancellationCode {
		t.Errorf("cancellation code = %#x, want %#x", code, CancellationCode)
	}
	if txID != 7 {
		t.Errorf("transaction id = %d, want 7", txID)
	}
}

type recordingControl struct {
	onControl func(rType, request uint8, val, idx uint16, data []byte) (int, error)
}

func (r *recordingControl) Control(rType, request uint8, val, idx uint16, data []byte) (int, error) {
	return r.onControl(rType, request, val, idx, data)
}

func TestOnEventDispatchesToRegisteredHandler(t *testing.T) {
	tr := newTransport(nil, nil, nil, nil, nil)

	var gotCode uint16
	var gotParams []uint32
	tr.OnEvent(0x4002, func(code uint16, transactionID uint32, params []uint32) {
		gotCode = code
		gotParams = params
	})

	tr.dispatchEvent(0x4002, 5, []uint32{0xABCD})

	if gotCode != 0x4002 {
		t.Errorf("code = %#x, want 0x4002", gotCode)
	}
	if len(gotParams) != 1 || gotParams[0] != 0xABCD {
		t.Errorf("params = %v, want [0xABCD]", gotParams)
	}
}
