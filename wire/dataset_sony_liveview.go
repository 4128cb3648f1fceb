package wire

// SonyLiveViewFrame is the decoded result of the Sony live-view dataset
// returned by GetObject on handle 0xFFFFC002 (liveview object handle).
// The wire layout is a fixed-offset header table followed by the
// embedded JPEG payload. The payload is located by the header's padding
// length; the JPEG start-of-image marker 0xFFD8 is only checked at that
// position, not searched for.
type SonyLiveViewFrame struct {
	JpegSize  uint32
	Liveview  []byte // the raw JPEG bytes
}

const (
	sonyLiveViewHeaderSize = 8 // {jpegSize u32, paddingSize u32}
	jpegSOIMarker1         = 0xFF
	jpegSOIMarker2         = 0xD8
)

// DecodeSonyLiveViewFrame parses the fixed-width header to locate the
// embedded JPEG bytes. The first 4 bytes are the JPEG payload size; the
// next 4 bytes are padding length before the JPEG start-of-image marker.
func DecodeSonyLiveViewFrame(buf []byte) (*SonyLiveViewFrame, error) {
	r := NewReader(buf, LittleEndian)

	jpegSize, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	padding, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(int(padding)); err != nil {
		return nil, err
	}

	jpeg, err := r.ReadBytes(int(jpegSize))
	if err != nil {
		return nil, err
	}
	if len(jpeg) < 2 || jpeg[0] != jpegSOIMarker1 || jpeg[1] != jpegSOIMarker2 {
		return nil, &CodecError{Kind: ErrInvalidString, Msg: "live view payload missing JPEG SOI marker"}
	}

	return &SonyLiveViewFrame{JpegSize: jpegSize, Liveview: jpeg}, nil
}
