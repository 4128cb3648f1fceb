package wire

// EnumCodec wraps a primitive Codec with a bijection between the raw
// coded value and a symbolic name. Decoding a code absent from the table
// fails with CodecError{UnknownEnum} unless Open is set (vendor format
// codes, for example, are deliberately open-ended).
type EnumCodec struct {
	Base  Codec
	Names map[uint32]string
	Codes map[string]uint32
	Open  bool
}

// NewEnumCodec builds an EnumCodec from a code->name table, deriving the
// reverse lookup.
func NewEnumCodec(base Codec, names map[uint32]string, open bool) *EnumCodec {
	codes := make(map[string]uint32, len(names))
	for code, name := range names {
		codes[name] = code
	}
	return &EnumCodec{Base: base, Names: names, Codes: codes, Open: open}
}

func toUint32(v interface{}) (uint32, bool) {
	switch x := v.(type) {
	case uint8:
		return uint32(x), true
	case uint16:
		return uint32(x), true
	case uint32:
		return x, true
	case uint64:
		return uint32(x), true
	}
	return 0, false
}

// Encode accepts either a symbolic name (string) or the raw coded value in
// whatever width the base codec expects.
func (c *EnumCodec) Encode(w *Writer, v interface{}) error {
	if name, ok := v.(string); ok {
		code, known := c.Codes[name]
		if !known {
			return unknownEnum(0)
		}
		return c.encodeRaw(w, code)
	}
	return c.Base.Encode(w, v)
}

func (c *EnumCodec) encodeRaw(w *Writer, code uint32) error {
	switch c.Base {
	case Uint8Codec:
		return c.Base.Encode(w, uint8(code))
	case Uint16Codec:
		return c.Base.Encode(w, uint16(code))
	default:
		return c.Base.Encode(w, code)
	}
}

func (c *EnumCodec) Decode(r *Reader) (interface{}, error) {
	raw, err := c.Base.Decode(r)
	if err != nil {
		return nil, err
	}
	code, ok := toUint32(raw)
	if !ok {
		return nil, badType("enum base value")
	}
	name, known := c.Names[code]
	if !known {
		if c.Open {
			return raw, nil
		}
		return nil, unknownEnum(code)
	}
	return name, nil
}

// RawValue decodes without translating to a name, used when a caller
// needs the numeric code regardless of whether it is enumerated.
func (c *EnumCodec) RawValue(r *Reader) (uint32, error) {
	raw, err := c.Base.Decode(r)
	if err != nil {
		return 0, err
	}
	code, _ := toUint32(raw)
	return code, nil
}
