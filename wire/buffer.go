// Package wire implements the PTP byte-level codec layer: a cursor over a
// contiguous byte slice, the base PTP datatype codecs, the composite
// (enum, variable-value, dataset) codecs, and the PIMA 15740 §D USB
// container framing. Everything here is endian-aware rather than
// host-endian: USB transports are little-endian, PTP/IP is big-endian, and
// the active Order is threaded through every call instead of assumed.
package wire

import (
	"unicode/utf16"
)

// Order selects the byte order a Reader/Writer operates with. PTP over USB
// is always little-endian; PTP/IP is big-endian. Never hard-code an
// encoding/binary.ByteOrder at a call site — thread Order through instead.
type Order bool

const (
	LittleEndian Order = true
	BigEndian    Order = false
)

// Reader is a consuming cursor over a byte slice. Every ReadX method
// advances the cursor and fails with a Truncated CodecError if the read
// would run past the end of the slice, rather than panicking.
type Reader struct {
	buf   []byte
	pos   int
	order Order
}

func NewReader(buf []byte, order Order) *Reader {
	return &Reader{buf: buf, order: order}
}

// Pos returns the current read offset.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return truncated(n, r.Remaining())
	}
	return nil
}

func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	if r.order == LittleEndian {
		return uint16(b[0]) | uint16(b[1])<<8, nil
	}
	return uint16(b[1]) | uint16(b[0])<<8, nil
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	if r.order == LittleEndian {
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
	}
	return uint32(b[3]) | uint32(b[2])<<8 | uint32(b[1])<<16 | uint32(b[0])<<24, nil
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	if r.order == LittleEndian {
		for i := 7; i >= 0; i-- {
			v = v<<8 | uint64(b[i])
		}
	} else {
		for i := 0; i < 8; i++ {
			v = v<<8 | uint64(b[i])
		}
	}
	return v, nil
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadUint128 reads a fixed 16-byte opaque blob, PTP's UINT128 datatype.
func (r *Reader) ReadUint128() ([16]byte, error) {
	var out [16]byte
	b, err := r.ReadBytes(16)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// ReadPTPString reads the PTP string convention: len u8 (code units
// including the trailing NUL), then that many UTF-16 code units in the
// reader's byte order, the last of which is the NUL. An empty string is
// encoded as a single 0x00 length byte with no code units following.
func (r *Reader) ReadPTPString() (string, error) {
	n, err := r.ReadU8()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	units := make([]uint16, n)
	for i := 0; i < int(n); i++ {
		u, err := r.ReadU16()
		if err != nil {
			return "", err
		}
		units[i] = u
	}
	// Strip the trailing NUL code unit before decoding.
	if len(units) > 0 && units[len(units)-1] == 0 {
		units = units[:len(units)-1]
	}
	return string(utf16.Decode(units)), nil
}

// ReadU16Array reads count:u32 followed by count u16 elements.
func (r *Reader) ReadU16Array() ([]uint16, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]uint16, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadU32Array reads count:u32 followed by count u32 elements.
func (r *Reader) ReadU32Array() ([]uint32, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Writer accumulates an encoded PTP byte stream in a growable buffer.
type Writer struct {
	buf   []byte
	order Order
}

func NewWriter(order Order) *Writer {
	return &Writer{order: order}
}

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteU16(v uint16) {
	if w.order == LittleEndian {
		w.buf = append(w.buf, byte(v), byte(v>>8))
	} else {
		w.buf = append(w.buf, byte(v>>8), byte(v))
	}
}

func (w *Writer) WriteU32(v uint32) {
	if w.order == LittleEndian {
		w.buf = append(w.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	} else {
		w.buf = append(w.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
}

func (w *Writer) WriteU64(v uint64) {
	if w.order == LittleEndian {
		for i := 0; i < 8; i++ {
			w.buf = append(w.buf, byte(v>>(8*i)))
		}
	} else {
		for i := 7; i >= 0; i-- {
			w.buf = append(w.buf, byte(v>>(8*i)))
		}
	}
}

func (w *Writer) WriteI8(v int8)   { w.WriteU8(uint8(v)) }
func (w *Writer) WriteI16(v int16) { w.WriteU16(uint16(v)) }
func (w *Writer) WriteI32(v int32) { w.WriteU32(uint32(v)) }
func (w *Writer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

func (w *Writer) WriteUint128(v [16]byte) {
	w.buf = append(w.buf, v[:]...)
}

func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WritePTPString encodes s using the PTP string convention documented on
// Reader.ReadPTPString. The empty string serializes to a single 0x00.
func (w *Writer) WritePTPString(s string) {
	if s == "" {
		w.WriteU8(0)
		return
	}
	units := utf16.Encode([]rune(s))
	units = append(units, 0) // trailing NUL code unit
	if len(units) > 255 {
		units = units[:255]
		units[254] = 0
	}
	w.WriteU8(uint8(len(units)))
	for _, u := range units {
		w.WriteU16(u)
	}
}

func (w *Writer) WriteU16Array(vals []uint16) {
	w.WriteU32(uint32(len(vals)))
	for _, v := range vals {
		w.WriteU16(v)
	}
}

func (w *Writer) WriteU32Array(vals []uint32) {
	w.WriteU32(uint32(len(vals)))
	for _, v := range vals {
		w.WriteU32(v)
	}
}
