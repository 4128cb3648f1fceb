package registry

import "testing"

func TestStandardOperationByCode(t *testing.T) {
	r := Standard(true)
	op, err := r.OperationByCode(OpGetDeviceInfo)
	if err != nil {
		t.Fatalf("OperationByCode: %v", err)
	}
	if op.Name != "GetDeviceInfo" {
		t.Errorf("got %q, want GetDeviceInfo", op.Name)
	}
}

func TestStandardOperationByCodeUnknown(t *testing.T) {
	r := Standard(true)
	if _, err := r.OperationByCode(0xBEEF); err == nil {
		t.Error("expected error for unknown operation code")
	}
}

func TestResponseByCodeUnknownIsSynthetic(t *testing.T) {
	r := Standard(true)
	resp, err := r.ResponseByCode(0x2999)
	if err != nil {
		t.Fatalf("ResponseByCode: %v", err)
	}
	want := "Unknown(0x2999)"
	if resp.Name != want {
		t.Errorf("got %q, want %q", resp.Name, want)
	}
}

func TestPropertyByName(t *testing.T) {
	r := Standard(true)
	p, err := r.PropertyByName("FNumber")
	if err != nil {
		t.Fatalf("PropertyByName: %v", err)
	}
	if p.Code != PropFNumber {
		t.Errorf("got code %#x, want %#x", p.Code, PropFNumber)
	}
}

func TestMergeOverridesCollidingCode(t *testing.T) {
	base := Standard(true)
	overlay := New(true,
		[]*Operation{{Code: OpGetDeviceInfo, Name: "GetDeviceInfoOverridden"}},
		nil, nil, nil, nil,
	)
	merged := Merge(base, overlay)

	op, err := merged.OperationByCode(OpGetDeviceInfo)
	if err != nil {
		t.Fatalf("OperationByCode: %v", err)
	}
	if op.Name != "GetDeviceInfoOverridden" {
		t.Errorf("got %q, want GetDeviceInfoOverridden", op.Name)
	}

	// base registry must remain untouched by the merge.
	baseOp, err := base.OperationByCode(OpGetDeviceInfo)
	if err != nil {
		t.Fatalf("base OperationByCode: %v", err)
	}
	if baseOp.Name != "GetDeviceInfo" {
		t.Errorf("base registry mutated: got %q, want GetDeviceInfo", baseOp.Name)
	}
}

func TestMergeExtendsDisjointCode(t *testing.T) {
	merged := Sony(true)
	op, err := merged.OperationByCode(OpSDIOConnect)
	if err != nil {
		t.Fatalf("OperationByCode(SDIO_Connect): %v", err)
	}
	if op.Name != "SDIO_Connect" {
		t.Errorf("got %q, want SDIO_Connect", op.Name)
	}

	// standard operations still resolve through the merged registry.
	if _, err := merged.OperationByCode(OpOpenSession); err != nil {
		t.Errorf("OpenSession missing from merged registry: %v", err)
	}
}

func TestNikonRegistryWiresNamedOpcodes(t *testing.T) {
	r := Nikon(true)
	cases := []struct {
		name string
		code uint16
	}{
		{"GetDevicePropDescEx", OpNikonGetDevicePropDescEx},
		{"SetDevicePropValueEx", OpNikonSetDevicePropValueEx},
		{"GetPartialObjectEx", OpNikonGetPartialObjectEx},
	}
	for _, c := range cases {
		op, err := r.OperationByCode(c.code)
		if err != nil {
			t.Errorf("OperationByCode(%#x): %v", c.code, err)
			continue
		}
		if op.Name != c.name {
			t.Errorf("code %#x: got %q, want %q", c.code, op.Name, c.name)
		}
	}
}

func TestCanonRegistryDoesNotCollideSetRemoteModeAndSetEventMode(t *testing.T) {
	r := Canon(true)
	remoteMode, err := r.OperationByCode(OpCanonSetRemoteMode)
	if err != nil {
		t.Fatalf("OperationByCode(SetRemoteMode): %v", err)
	}
	eventMode, err := r.OperationByCode(OpCanonSetEventMode)
	if err != nil {
		t.Fatalf("OperationByCode(SetEventMode): %v", err)
	}
	if remoteMode.Code == eventMode.Code {
		t.Errorf("SetRemoteMode and SetEventMode share code %#x", remoteMode.Code)
	}
	if remoteMode.Name != "SetRemoteMode" || eventMode.Name != "SetEventMode" {
		t.Errorf("got %q/%q, want SetRemoteMode/SetEventMode", remoteMode.Name, eventMode.Name)
	}
}

func TestEventByCodeUnknownIsSynthetic(t *testing.T) {
	r := Standard(true)
	e, err := r.EventByCode(0x4999)
	if err != nil {
		t.Fatalf("EventByCode: %v", err)
	}
	if e.Name != "Unknown(0x4999)" {
		t.Errorf("got %q, want Unknown(0x4999)", e.Name)
	}
}
