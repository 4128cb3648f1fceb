package discovery

import "testing"

func descriptor(vendorID, productID uint16, serial string) CameraDescriptor {
	return CameraDescriptor{VendorID: vendorID, ProductID: productID, SerialNumber: serial}
}

func TestDiffAdded(t *testing.T) {
	prev := map[identityKey]CameraDescriptor{}
	sony := descriptor(0x054C, 0x0001, "ABC123")
	current := map[identityKey]CameraDescriptor{keyForTest(sony): sony}

	events := diff(prev, current)
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if !events[0].Added {
		t.Errorf("events[0].Added = false, want true")
	}
	if events[0].Camera.SerialNumber != "ABC123" {
		t.Errorf("Camera.SerialNumber = %q, want ABC123", events[0].Camera.SerialNumber)
	}
}

func TestDiffRemoved(t *testing.T) {
	sony := descriptor(0x054C, 0x0001, "ABC123")
	prev := map[identityKey]CameraDescriptor{keyForTest(sony): sony}
	current := map[identityKey]CameraDescriptor{}

	events := diff(prev, current)
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Added {
		t.Errorf("events[0].Added = true, want false")
	}
}

func TestDiffNoChange(t *testing.T) {
	sony := descriptor(0x054C, 0x0001, "ABC123")
	prev := map[identityKey]CameraDescriptor{keyForTest(sony): sony}
	current := map[identityKey]CameraDescriptor{keyForTest(sony): sony}

	if events := diff(prev, current); len(events) != 0 {
		t.Errorf("diff with identical sets produced %d events, want 0", len(events))
	}
}

func TestDiffDifferentSerialIsDistinctIdentity(t *testing.T) {
	a := descriptor(0x054C, 0x0001, "AAA")
	b := descriptor(0x054C, 0x0001, "BBB")
	prev := map[identityKey]CameraDescriptor{keyForTest(a): a}
	current := map[identityKey]CameraDescriptor{keyForTest(b): b}

	events := diff(prev, current)
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2 (one removed, one added)", len(events))
	}
}

func TestRegistryInstanceIDStableAcrossCalls(t *testing.T) {
	r := newRegistry()
	k := identityKey{vendorID: 0x054C, productID: 0x0001, serialNumber: "ABC123"}

	first := r.instanceID(k)
	second := r.instanceID(k)
	if first != second {
		t.Errorf("instanceID changed across calls for the same identity: %q != %q", first, second)
	}
}

func TestRegistryInstanceIDDistinctPerIdentity(t *testing.T) {
	r := newRegistry()
	a := identityKey{vendorID: 0x054C, productID: 0x0001, serialNumber: "AAA"}
	b := identityKey{vendorID: 0x054C, productID: 0x0001, serialNumber: "BBB"}

	if r.instanceID(a) == r.instanceID(b) {
		t.Errorf("distinct identities were assigned the same instance ID")
	}
}

func keyForTest(d CameraDescriptor) identityKey {
	return identityKey{vendorID: d.VendorID, productID: d.ProductID, serialNumber: d.SerialNumber}
}
