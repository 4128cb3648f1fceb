package wire

// DataType is a PTP datatype code, PIMA 15740 table: scalars 0x0001-0x000A,
// arrays 0x4001-0x400A, string 0xFFFF, undefined 0x0000.
type DataType uint16

const (
	TypeUndefined DataType = 0x0000
	TypeUint8     DataType = 0x0001
	TypeInt8      DataType = 0x0002
	TypeUint16    DataType = 0x0003
	TypeInt16     DataType = 0x0004
	TypeUint32    DataType = 0x0005
	TypeInt32     DataType = 0x0006
	TypeUint64    DataType = 0x0007
	TypeInt64     DataType = 0x0008
	TypeUint128   DataType = 0x0009
	TypeInt128    DataType = 0x000A

	TypeArrayUint8   DataType = 0x4001
	TypeArrayInt8    DataType = 0x4002
	TypeArrayUint16  DataType = 0x4003
	TypeArrayInt16   DataType = 0x4004
	TypeArrayUint32  DataType = 0x4005
	TypeArrayInt32   DataType = 0x4006
	TypeArrayUint64  DataType = 0x4007
	TypeArrayInt64   DataType = 0x4008
	TypeArrayUint128 DataType = 0x4009
	TypeArrayInt128  DataType = 0x400A

	TypeString DataType = 0xFFFF
)

// Codec is the encode/decode contract for one PTP datatype or property
// value. It works on interface{} values and is the single codec type used
// both at call sites and inside the operation/property registry.
type Codec interface {
	// Encode serializes v, which must be of the type this codec handles.
	Encode(w *Writer, v interface{}) error
	// Decode consumes bytes from r and returns the decoded value.
	Decode(r *Reader) (interface{}, error)
}

// baseCodec implements Codec for one scalar PTP datatype using closures,
// avoiding elevenfold near-identical struct definitions for the scalar
// family.
type baseCodec struct {
	name   string
	enc    func(w *Writer, v interface{}) error
	dec    func(r *Reader) (interface{}, error)
}

func (c *baseCodec) Encode(w *Writer, v interface{}) error { return c.enc(w, v) }
func (c *baseCodec) Decode(r *Reader) (interface{}, error) { return c.dec(r) }

func asU8(v interface{}) (uint8, bool)   { x, ok := v.(uint8); return x, ok }
func asI8(v interface{}) (int8, bool)    { x, ok := v.(int8); return x, ok }
func asU16(v interface{}) (uint16, bool) { x, ok := v.(uint16); return x, ok }
func asI16(v interface{}) (int16, bool)  { x, ok := v.(int16); return x, ok }
func asU32(v interface{}) (uint32, bool) { x, ok := v.(uint32); return x, ok }
func asI32(v interface{}) (int32, bool)  { x, ok := v.(int32); return x, ok }
func asU64(v interface{}) (uint64, bool) { x, ok := v.(uint64); return x, ok }
func asI64(v interface{}) (int64, bool)  { x, ok := v.(int64); return x, ok }

func badType(name string) error {
	return &CodecError{Kind: ErrValueOutOfRange, Msg: "value is not a " + name}
}

var (
	Uint8Codec Codec = &baseCodec{
		name: "uint8",
		enc: func(w *Writer, v interface{}) error {
			x, ok := asU8(v)
			if !ok {
				return badType("uint8")
			}
			w.WriteU8(x)
			return nil
		},
		dec: func(r *Reader) (interface{}, error) { return r.ReadU8() },
	}
	Int8Codec Codec = &baseCodec{
		name: "int8",
		enc: func(w *Writer, v interface{}) error {
			x, ok := asI8(v)
			if !ok {
				return badType("int8")
			}
			w.WriteI8(x)
			return nil
		},
		dec: func(r *Reader) (interface{}, error) { return r.ReadI8() },
	}
	Uint16Codec Codec = &baseCodec{
		name: "uint16",
		enc: func(w *Writer, v interface{}) error {
			x, ok := asU16(v)
			if !ok {
				return badType("uint16")
			}
			w.WriteU16(x)
			return nil
		},
		dec: func(r *Reader) (interface{}, error) { return r.ReadU16() },
	}
	Int16Codec Codec = &baseCodec{
		name: "int16",
		enc: func(w *Writer, v interface{}) error {
			x, ok := asI16(v)
			if !ok {
				return badType("int16")
			}
			w.WriteI16(x)
			return nil
		},
		dec: func(r *Reader) (interface{}, error) { return r.ReadI16() },
	}
	Uint32Codec Codec = &baseCodec{
		name: "uint32",
		enc: func(w *Writer, v interface{}) error {
			x, ok := asU32(v)
			if !ok {
				return badType("uint32")
			}
			w.WriteU32(x)
			return nil
		},
		dec: func(r *Reader) (interface{}, error) { return r.ReadU32() },
	}
	Int32Codec Codec = &baseCodec{
		name: "int32",
		enc: func(w *Writer, v interface{}) error {
			x, ok := asI32(v)
			if !ok {
				return badType("int32")
			}
			w.WriteI32(x)
			return nil
		},
		dec: func(r *Reader) (interface{}, error) { return r.ReadI32() },
	}
	Uint64Codec Codec = &baseCodec{
		name: "uint64",
		enc: func(w *Writer, v interface{}) error {
			x, ok := asU64(v)
			if !ok {
				return badType("uint64")
			}
			w.WriteU64(x)
			return nil
		},
		dec: func(r *Reader) (interface{}, error) { return r.ReadU64() },
	}
	Int64Codec Codec = &baseCodec{
		name: "int64",
		enc: func(w *Writer, v interface{}) error {
			x, ok := asI64(v)
			if !ok {
				return badType("int64")
			}
			w.WriteI64(x)
			return nil
		},
		dec: func(r *Reader) (interface{}, error) { return r.ReadI64() },
	}
	Uint128Codec Codec = &baseCodec{
		name: "uint128",
		enc: func(w *Writer, v interface{}) error {
			x, ok := v.([16]byte)
			if !ok {
				return badType("uint128")
			}
			w.WriteUint128(x)
			return nil
		},
		dec: func(r *Reader) (interface{}, error) { return r.ReadUint128() },
	}
	StringCodec Codec = &baseCodec{
		name: "string",
		enc: func(w *Writer, v interface{}) error {
			x, ok := v.(string)
			if !ok {
				return badType("string")
			}
			w.WritePTPString(x)
			return nil
		},
		dec: func(r *Reader) (interface{}, error) { return r.ReadPTPString() },
	}
	ArrayUint16Codec Codec = &baseCodec{
		name: "array<uint16>",
		enc: func(w *Writer, v interface{}) error {
			x, ok := v.([]uint16)
			if !ok {
				return badType("[]uint16")
			}
			w.WriteU16Array(x)
			return nil
		},
		dec: func(r *Reader) (interface{}, error) { return r.ReadU16Array() },
	}
	ArrayUint32Codec Codec = &baseCodec{
		name: "array<uint32>",
		enc: func(w *Writer, v interface{}) error {
			x, ok := v.([]uint32)
			if !ok {
				return badType("[]uint32")
			}
			w.WriteU32Array(x)
			return nil
		},
		dec: func(r *Reader) (interface{}, error) { return r.ReadU32Array() },
	}
)

// BaseCodecs maps every DataType this module supports to its Codec. It is
// built at package initialization and never mutated afterwards, including
// by vendor registries.
var BaseCodecs = map[DataType]Codec{
	TypeUint8:       Uint8Codec,
	TypeInt8:        Int8Codec,
	TypeUint16:      Uint16Codec,
	TypeInt16:       Int16Codec,
	TypeUint32:      Uint32Codec,
	TypeInt32:       Int32Codec,
	TypeUint64:      Uint64Codec,
	TypeInt64:       Int64Codec,
	TypeUint128:     Uint128Codec,
	TypeString:      StringCodec,
	TypeArrayUint16: ArrayUint16Codec,
	TypeArrayUint32: ArrayUint32Codec,
}

// CodecFor looks up the base codec for a runtime datatype code, used by
// the VariableValue codec and DevicePropDesc decoding.
func CodecFor(dt DataType) (Codec, error) {
	c, ok := BaseCodecs[dt]
	if !ok {
		return nil, unknownDatatype(uint32(dt))
	}
	return c, nil
}
