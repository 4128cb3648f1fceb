package wire

import "fmt"

// ApertureCodec formats PTP's uint16 f-number as a human "f/X.Y" string
// and back. The wire value is the f-number times 100: 0x0118 == 280 ==
// f/2.8, 350 == f/3.5.
var ApertureCodec Codec = &baseCodec{
	name: "aperture",
	enc: func(w *Writer, v interface{}) error {
		s, ok := v.(string)
		if !ok {
			return badType("aperture string")
		}
		var whole, frac int
		if _, err := fmt.Sscanf(s, "f/%d.%d", &whole, &frac); err != nil {
			if _, err := fmt.Sscanf(s, "f/%d", &whole); err != nil {
				return &CodecError{Kind: ErrInvalidString, Msg: "malformed aperture " + s}
			}
			frac = 0
		}
		w.WriteU16(uint16(whole*100 + frac*10))
		return nil
	},
	dec: func(r *Reader) (interface{}, error) {
		raw, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		whole := raw / 100
		frac := (raw % 100) / 10
		return fmt.Sprintf("f/%d.%d", whole, frac), nil
	},
}

// ShutterCodec formats PTP's uint32 shutter speed. The value is a packed
// fraction: high 16 bits numerator, low 16 bits denominator, e.g.
// 0x0001_0FA0 == 1/4000s. 0xFFFFFFFF is the documented BULB sentinel.
// A denominator of 0 or 1 is rendered as whole seconds: the numerator
// with a trailing inch-mark (e.g. 2"), matching the vendor convention
// for speeds at or above one second.
var ShutterCodec Codec = &baseCodec{
	name: "shutter",
	enc: func(w *Writer, v interface{}) error {
		s, ok := v.(string)
		if !ok {
			return badType("shutter string")
		}
		if s == "BULB" {
			w.WriteU32(0xFFFFFFFF)
			return nil
		}
		var num, den uint32
		if n, err := fmt.Sscanf(s, "%d/%d", &num, &den); err == nil && n == 2 {
			w.WriteU32(num<<16 | (den & 0xFFFF))
			return nil
		}
		var secs uint32
		if n, err := fmt.Sscanf(s, "%d\"", &secs); err == nil && n == 1 {
			w.WriteU32(secs<<16 | 1)
			return nil
		}
		return &CodecError{Kind: ErrInvalidString, Msg: "malformed shutter speed " + s}
	},
	dec: func(r *Reader) (interface{}, error) {
		raw, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		if raw == 0xFFFFFFFF {
			return "BULB", nil
		}
		num := raw >> 16
		den := raw & 0xFFFF
		if den <= 1 {
			return fmt.Sprintf("%d\"", num), nil
		}
		return fmt.Sprintf("%d/%d", num, den), nil
	},
}

// IsoCodec formats PTP's uint32 ISO sensitivity. 0x00FFFFFF is the
// documented "ISO AUTO" sentinel; everything else is rendered "ISO N".
var IsoCodec Codec = &baseCodec{
	name: "iso",
	enc: func(w *Writer, v interface{}) error {
		s, ok := v.(string)
		if !ok {
			return badType("iso string")
		}
		if s == "ISO AUTO" {
			w.WriteU32(0x00FFFFFF)
			return nil
		}
		var n uint32
		if _, err := fmt.Sscanf(s, "ISO %d", &n); err != nil {
			return &CodecError{Kind: ErrInvalidString, Msg: "malformed iso " + s}
		}
		w.WriteU32(n)
		return nil
	},
	dec: func(r *Reader) (interface{}, error) {
		raw, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		if raw == 0x00FFFFFF {
			return "ISO AUTO", nil
		}
		return fmt.Sprintf("ISO %d", raw), nil
	},
}
