package wire

// VariableValue decodes/encodes a value whose width and interpretation is
// determined at runtime by a datatype code carried alongside it (used by
// DevicePropDesc's factoryDefault/currentValue/range fields, which are all
// "however wide `datatype` says they are"). VariableValue also returns the
// raw bytes consumed, since property codecs such as the aperture/shutter/
// ISO formatters prefer to re-decode those raw bytes with semantic
// formatting rather than work from the already-unboxed Go value.
type VariableValue struct {
	Type DataType
}

// Decode reads one value of v.Type from r and returns the value together
// with the raw bytes it consumed.
func (v VariableValue) Decode(r *Reader) (value interface{}, raw []byte, err error) {
	start := r.Pos()
	codec, err := CodecFor(v.Type)
	if err != nil {
		return nil, nil, err
	}
	val, err := codec.Decode(r)
	if err != nil {
		return nil, nil, err
	}
	end := r.Pos()
	// The raw bytes are the window of r's buffer between the two positions.
	return val, r.sliceBetween(start, end), nil
}

// Encode writes value, whose Go type must match the codec registered for
// v.Type.
func (v VariableValue) Encode(w *Writer, value interface{}) error {
	codec, err := CodecFor(v.Type)
	if err != nil {
		return err
	}
	return codec.Encode(w, value)
}

// sliceBetween exposes the raw bytes consumed between two positions of the
// reader's underlying buffer, used by VariableValue.Decode.
func (r *Reader) sliceBetween(start, end int) []byte {
	return r.buf[start:end]
}
