package wire

import (
	"bytes"
	"testing"
)

func TestReaderWriterU16RoundTrip(t *testing.T) {
	w := NewWriter(LittleEndian)
	w.WriteU16(0x1234)
	r := NewReader(w.Bytes(), LittleEndian)
	got, err := r.ReadU16()
	if err != nil {
		t.Fatalf("ReadU16() err = %s; want <nil>", err)
	}
	if got != 0x1234 {
		t.Errorf("ReadU16() = %#x; want %#x", got, 0x1234)
	}
}

func TestReaderU16BigEndian(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02}, BigEndian)
	got, err := r.ReadU16()
	if err != nil {
		t.Fatalf("ReadU16() err = %s; want <nil>", err)
	}
	want := uint16(0x0102)
	if got != want {
		t.Errorf("ReadU16() = %#x; want %#x", got, want)
	}
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{0x01}, LittleEndian)
	_, err := r.ReadU16()
	if err == nil {
		t.Fatal("ReadU16() err = <nil>; want CodecError")
	}
	ce, ok := err.(*CodecError)
	if !ok {
		t.Fatalf("ReadU16() err type = %T; want *CodecError", err)
	}
	if ce.Kind != ErrTruncated {
		t.Errorf("ReadU16() err Kind = %v; want ErrTruncated", ce.Kind)
	}
	if ce.Need != 2 || ce.Have != 1 {
		t.Errorf("ReadU16() err Need/Have = %d/%d; want 2/1", ce.Need, ce.Have)
	}
}

func TestPTPStringEmpty(t *testing.T) {
	w := NewWriter(LittleEndian)
	w.WritePTPString("")
	if got, want := w.Bytes(), []byte{0x00}; !bytes.Equal(got, want) {
		t.Errorf("WritePTPString(\"\") = %v; want %v", got, want)
	}

	r := NewReader([]byte{0x00}, LittleEndian)
	s, err := r.ReadPTPString()
	if err != nil {
		t.Fatalf("ReadPTPString() err = %s; want <nil>", err)
	}
	if s != "" {
		t.Errorf("ReadPTPString() = %q; want \"\"", s)
	}
}

func TestPTPStringRoundTrip(t *testing.T) {
	cases := []string{"Sony", "ILCE-7M4", "a"}
	for _, s := range cases {
		w := NewWriter(LittleEndian)
		w.WritePTPString(s)
		r := NewReader(w.Bytes(), LittleEndian)
		got, err := r.ReadPTPString()
		if err != nil {
			t.Fatalf("ReadPTPString(%q) err = %s; want <nil>", s, err)
		}
		if got != s {
			t.Errorf("ReadPTPString(%q) = %q; want %q", s, got, s)
		}
		if r.Remaining() != 0 {
			t.Errorf("ReadPTPString(%q) left %d bytes unread; want 0", s, r.Remaining())
		}
	}
}

func TestU16ArrayRoundTrip(t *testing.T) {
	vals := []uint16{0x1001, 0x1002, 0x1003}
	w := NewWriter(LittleEndian)
	w.WriteU16Array(vals)
	r := NewReader(w.Bytes(), LittleEndian)
	got, err := r.ReadU16Array()
	if err != nil {
		t.Fatalf("ReadU16Array() err = %s; want <nil>", err)
	}
	if len(got) != len(vals) {
		t.Fatalf("ReadU16Array() len = %d; want %d", len(got), len(vals))
	}
	for i := range vals {
		if got[i] != vals[i] {
			t.Errorf("ReadU16Array()[%d] = %#x; want %#x", i, got[i], vals[i])
		}
	}
}
