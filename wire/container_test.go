package wire

import "testing"

func TestContainerMarshalOpenSession(t *testing.T) {
	c := &Container{
		Type:          ContainerCommand,
		Code:          0x1002, // OpenSession
		TransactionID: 1,
		Payload:       EncodeParams([]uint32{1}),
	}
	got := c.Marshal()
	want := []byte{
		0x10, 0x00, 0x00, 0x00, // length = 16 (12-byte header + one u32 param)
		0x01, 0x00, // type = Command
		0x02, 0x10, // code = OpenSession
		0x01, 0x00, 0x00, 0x00, // transaction id = 1
		0x01, 0x00, 0x00, 0x00, // param1 = session id 1
	}
	if len(got) != len(want) {
		t.Fatalf("Marshal() len = %d; want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Marshal()[%d] = %#x; want %#x", i, got[i], want[i])
		}
	}
}

func TestContainerRoundTrip(t *testing.T) {
	c := &Container{
		Type:          ContainerResponse,
		Code:          0x2001, // OK
		TransactionID: 7,
		Payload:       EncodeParams([]uint32{42, 43}),
	}
	buf := c.Marshal()

	if got, want := uint32(len(buf)), c.Length(); got != want {
		t.Errorf("len(Marshal()) = %d; want Length() %d", got, want)
	}

	got, err := ParseContainer(buf)
	if err != nil {
		t.Fatalf("ParseContainer() err = %s; want <nil>", err)
	}
	if got.Type != c.Type {
		t.Errorf("ParseContainer() Type = %v; want %v", got.Type, c.Type)
	}
	if got.Code != c.Code {
		t.Errorf("ParseContainer() Code = %#x; want %#x", got.Code, c.Code)
	}
	if got.TransactionID != c.TransactionID {
		t.Errorf("ParseContainer() TransactionID = %d; want %d", got.TransactionID, c.TransactionID)
	}
	params := DecodeParams(got.Payload)
	if len(params) != 2 || params[0] != 42 || params[1] != 43 {
		t.Errorf("DecodeParams() = %v; want [42 43]", params)
	}
}

func TestParseContainerRejectsUnknownType(t *testing.T) {
	buf := []byte{0x0C, 0x00, 0x00, 0x00, 0x09, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if _, err := ParseContainer(buf); err == nil {
		t.Error("ParseContainer() err = <nil>; want error for invalid type")
	}
}
