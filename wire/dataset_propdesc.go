package wire

// Device property form flags, PIMA 15740.
const (
	FormNone  uint8 = 0x00
	FormRange uint8 = 0x01
	FormEnum  uint8 = 0x02
)

// DevicePropDesc is the PTP GetDevicePropDesc response dataset, spec.md §3
// table. DevicePropCode is carried as uint32 internally regardless of
// whether the wire form used 2 or 4 bytes (Nikon's GetDevicePropDescEx);
// CodeWidth records which wire width produced it. This package only
// decodes DevicePropDesc; it has no encoder for it.
type DevicePropDesc struct {
	CodeWidth       int // 2 or 4
	DevicePropCode  uint32
	Datatype        DataType
	GetSet          uint8
	FactoryDefault  interface{}
	CurrentValue    interface{}
	FormFlag        uint8
	RangeMin        interface{}
	RangeMax        interface{}
	RangeStep       interface{}
	EnumValues      []interface{}
}

// DecodeDevicePropDesc decodes a DevicePropDesc with a 2-byte
// DevicePropCode (standard PTP GetDevicePropDesc).
func DecodeDevicePropDesc(r *Reader) (*DevicePropDesc, error) {
	return decodeDevicePropDesc(r, 2)
}

// DecodeDevicePropDescEx decodes the Nikon 4-byte-DevicePropCode variant
// (GetDevicePropDescEx, opcode 0x943A).
func DecodeDevicePropDescEx(r *Reader) (*DevicePropDesc, error) {
	return decodeDevicePropDesc(r, 4)
}

func decodeDevicePropDesc(r *Reader, codeWidth int) (*DevicePropDesc, error) {
	var d DevicePropDesc
	d.CodeWidth = codeWidth

	if codeWidth == 4 {
		v, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		d.DevicePropCode = v
	} else {
		v, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		d.DevicePropCode = uint32(v)
	}

	dt, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	d.Datatype = DataType(dt)

	if d.GetSet, err = r.ReadU8(); err != nil {
		return nil, err
	}

	vv := VariableValue{Type: d.Datatype}
	if d.FactoryDefault, _, err = vv.Decode(r); err != nil {
		return nil, err
	}
	if d.CurrentValue, _, err = vv.Decode(r); err != nil {
		return nil, err
	}

	if d.FormFlag, err = r.ReadU8(); err != nil {
		return nil, err
	}

	switch d.FormFlag {
	case FormRange:
		if d.RangeMin, _, err = vv.Decode(r); err != nil {
			return nil, err
		}
		if d.RangeMax, _, err = vv.Decode(r); err != nil {
			return nil, err
		}
		if d.RangeStep, _, err = vv.Decode(r); err != nil {
			return nil, err
		}
	case FormEnum:
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		d.EnumValues = make([]interface{}, 0, n)
		for i := uint16(0); i < n; i++ {
			val, _, err := vv.Decode(r)
			if err != nil {
				return nil, err
			}
			d.EnumValues = append(d.EnumValues, val)
		}
	}

	return &d, nil
}

// SonySDIPropDesc is the Sony SDIO_GetExtDevicePropValue response layout,
// spec.md §3 table. It carries two enum sets: Set for display,
// GetSetValues for actual set operations.
type SonySDIPropDesc struct {
	DevicePropCode uint16
	Datatype       DataType
	GetSet         uint8
	IsEnabled      uint8
	FactoryDefault interface{}
	CurrentValue   interface{}
	FormFlag       uint8
	Set            []interface{}
	GetSetValues   []interface{}
}

func DecodeSonySDIPropDesc(r *Reader) (*SonySDIPropDesc, error) {
	var d SonySDIPropDesc
	var err error

	if d.DevicePropCode, err = r.ReadU16(); err != nil {
		return nil, err
	}
	dt, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	d.Datatype = DataType(dt)

	if d.GetSet, err = r.ReadU8(); err != nil {
		return nil, err
	}
	if d.IsEnabled, err = r.ReadU8(); err != nil {
		return nil, err
	}

	vv := VariableValue{Type: d.Datatype}
	if d.FactoryDefault, _, err = vv.Decode(r); err != nil {
		return nil, err
	}
	if d.CurrentValue, _, err = vv.Decode(r); err != nil {
		return nil, err
	}

	if d.FormFlag, err = r.ReadU8(); err != nil {
		return nil, err
	}

	if d.FormFlag == FormEnum {
		nSet, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		d.Set = make([]interface{}, 0, nSet)
		for i := uint16(0); i < nSet; i++ {
			v, _, err := vv.Decode(r)
			if err != nil {
				return nil, err
			}
			d.Set = append(d.Set, v)
		}

		nGetSet, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		d.GetSetValues = make([]interface{}, 0, nGetSet)
		for i := uint16(0); i < nGetSet; i++ {
			v, _, err := vv.Decode(r)
			if err != nil {
				return nil, err
			}
			d.GetSetValues = append(d.GetSetValues, v)
		}
	}

	return &d, nil
}
