package wire

import "testing"

func TestEnumCodecRoundTrip(t *testing.T) {
	codec := NewEnumCodec(Uint16Codec, map[uint32]string{
		0x2001: "OK",
		0x2019: "DeviceBusy",
	}, false)

	w := NewWriter(LittleEndian)
	if err := codec.Encode(w, "DeviceBusy"); err != nil {
		t.Fatalf("Encode() err = %s; want <nil>", err)
	}

	r := NewReader(w.Bytes(), LittleEndian)
	got, err := codec.Decode(r)
	if err != nil {
		t.Fatalf("Decode() err = %s; want <nil>", err)
	}
	if got != "DeviceBusy" {
		t.Errorf("Decode() = %q; want DeviceBusy", got)
	}
}

func TestEnumCodecUnknownClosed(t *testing.T) {
	codec := NewEnumCodec(Uint16Codec, map[uint32]string{0x2001: "OK"}, false)
	w := NewWriter(LittleEndian)
	w.WriteU16(0x9999)

	r := NewReader(w.Bytes(), LittleEndian)
	_, err := codec.Decode(r)
	if err == nil {
		t.Fatal("Decode() err = <nil>; want CodecError{UnknownEnum}")
	}
	ce, ok := err.(*CodecError)
	if !ok || ce.Kind != ErrUnknownEnum {
		t.Errorf("Decode() err = %v; want CodecError{UnknownEnum}", err)
	}
}

func TestEnumCodecUnknownOpenPassesThrough(t *testing.T) {
	codec := NewEnumCodec(Uint16Codec, map[uint32]string{0x2001: "OK"}, true)
	w := NewWriter(LittleEndian)
	w.WriteU16(0x9999)

	r := NewReader(w.Bytes(), LittleEndian)
	got, err := codec.Decode(r)
	if err != nil {
		t.Fatalf("Decode() err = %s; want <nil>", err)
	}
	if got != uint16(0x9999) {
		t.Errorf("Decode() = %v; want uint16(0x9999)", got)
	}
}
