package wire

import "testing"

func TestDecodeDeviceInfo(t *testing.T) {
	w := NewWriter(LittleEndian)
	w.WriteU16(100)          // standardVersion
	w.WriteU32(0x00000006)   // vendorExtensionId (Sony)
	w.WriteU16(100)          // vendorExtensionVersion
	w.WritePTPString("Sony PTP Extensions")
	w.WriteU16(1) // functionalMode
	w.WriteU16Array([]uint16{0x1001, 0x1002})
	w.WriteU16Array([]uint16{0x4002})
	w.WriteU16Array([]uint16{0x5001})
	w.WriteU16Array([]uint16{0x3801})
	w.WriteU16Array([]uint16{0x3801})
	w.WritePTPString("Sony")
	w.WritePTPString("ILCE-7M4")
	w.WritePTPString("2.00")
	w.WritePTPString("0123456789")

	r := NewReader(w.Bytes(), LittleEndian)
	got, err := DecodeDeviceInfo(r)
	if err != nil {
		t.Fatalf("DecodeDeviceInfo() err = %s; want <nil>", err)
	}
	if got.Manufacturer != "Sony" {
		t.Errorf("Manufacturer = %q; want Sony", got.Manufacturer)
	}
	if got.Model != "ILCE-7M4" {
		t.Errorf("Model = %q; want ILCE-7M4", got.Model)
	}
	if len(got.OperationsSupported) != 2 || got.OperationsSupported[1] != 0x1002 {
		t.Errorf("OperationsSupported = %v; want [0x1001 0x1002]", got.OperationsSupported)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining() = %d; want 0", r.Remaining())
	}
}

func TestObjectInfoRoundTrip(t *testing.T) {
	o := &ObjectInfo{
		StorageID:            0x00010001,
		ObjectFormat:         0x3801,
		ObjectCompressedSize: 1024,
		Filename:             "DSC00001.JPG",
		CaptureDate:          "20260101T120000",
	}
	w := NewWriter(LittleEndian)
	EncodeObjectInfo(w, o)

	r := NewReader(w.Bytes(), LittleEndian)
	got, err := DecodeObjectInfo(r)
	if err != nil {
		t.Fatalf("DecodeObjectInfo() err = %s; want <nil>", err)
	}
	if got.Filename != o.Filename {
		t.Errorf("Filename = %q; want %q", got.Filename, o.Filename)
	}
	if got.ObjectCompressedSize != o.ObjectCompressedSize {
		t.Errorf("ObjectCompressedSize = %d; want %d", got.ObjectCompressedSize, o.ObjectCompressedSize)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining() = %d; want 0", r.Remaining())
	}
}
