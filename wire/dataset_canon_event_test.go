package wire

import "testing"

func TestDecodeCanonEventsChangedAndAllowed(t *testing.T) {
	w := NewWriter(LittleEndian)

	// {0xC189, propCode=0xD101, value=0x01F4}
	w.WriteU32(16) // size = 8 (record header) + 8 (propCode+pad+value)
	w.WriteU16(CanonEventPropertyChanged)
	w.WriteU16(0) // reserved
	w.WriteU16(0xD101)
	w.WriteU16(0) // _pad
	w.WriteU32(0x01F4)

	// {0xC18A, propCode=0xD101, type=3, count=3, values=[0x64,0xC8,0x1F4]}
	allowedValues := []uint32{0x0064, 0x00C8, 0x01F4}
	allowedSize := 8 + 2 + 2 + 4 + 4 + 4*len(allowedValues)
	w.WriteU32(uint32(allowedSize))
	w.WriteU16(CanonEventAllowedValues)
	w.WriteU16(0)
	w.WriteU16(0xD101)
	w.WriteU16(0)
	w.WriteU32(3)
	w.WriteU32(uint32(len(allowedValues)))
	for _, v := range allowedValues {
		w.WriteU32(v)
	}

	events, err := DecodeCanonEvents(w.Bytes())
	if err != nil {
		t.Fatalf("DecodeCanonEvents() err = %s; want <nil>", err)
	}
	if len(events) != 2 {
		t.Fatalf("DecodeCanonEvents() len = %d; want 2", len(events))
	}

	if events[0].Changed == nil {
		t.Fatal("events[0].Changed = <nil>; want non-nil")
	}
	if events[0].Changed.PropCode != 0xD101 || events[0].Changed.Value != 0x01F4 {
		t.Errorf("events[0].Changed = %+v; want {0xD101 0x1F4}", events[0].Changed)
	}

	if events[1].Allowed == nil {
		t.Fatal("events[1].Allowed = <nil>; want non-nil")
	}
	if events[1].Allowed.PropCode != 0xD101 || events[1].Allowed.Type != 3 {
		t.Errorf("events[1].Allowed PropCode/Type = %#x/%d; want 0xD101/3", events[1].Allowed.PropCode, events[1].Allowed.Type)
	}
	if len(events[1].Allowed.Values) != 3 || events[1].Allowed.Values[2] != 0x1F4 {
		t.Errorf("events[1].Allowed.Values = %v; want [0x64 0xC8 0x1F4]", events[1].Allowed.Values)
	}
}

func TestDecodeCanonEventsStopsOnEmptyRecord(t *testing.T) {
	w := NewWriter(LittleEndian)
	w.WriteU32(8) // size==8 marks end of batch
	w.WriteU16(0)
	w.WriteU16(0)

	events, err := DecodeCanonEvents(w.Bytes())
	if err != nil {
		t.Fatalf("DecodeCanonEvents() err = %s; want <nil>", err)
	}
	if len(events) != 0 {
		t.Errorf("DecodeCanonEvents() len = %d; want 0", len(events))
	}
}

func TestDecodeCanonEventsSkipsUnknownCode(t *testing.T) {
	w := NewWriter(LittleEndian)
	w.WriteU32(12) // size, 4 bytes unknown payload
	w.WriteU16(0xC1FF)
	w.WriteU16(0)
	w.WriteBytes([]byte{1, 2, 3, 4})

	// terminator
	w.WriteU32(8)
	w.WriteU16(0)
	w.WriteU16(0)

	events, err := DecodeCanonEvents(w.Bytes())
	if err != nil {
		t.Fatalf("DecodeCanonEvents() err = %s; want <nil>", err)
	}
	if len(events) != 1 {
		t.Fatalf("DecodeCanonEvents() len = %d; want 1", len(events))
	}
	if events[0].Code != 0xC1FF {
		t.Errorf("events[0].Code = %#x; want 0xC1FF", events[0].Code)
	}
	if events[0].Changed != nil || events[0].Allowed != nil {
		t.Error("events[0] should have nil Changed/Allowed for an unknown code")
	}
}
