package registry

import "github.com/ptphost/go-ptp/wire"

// funcDatasetCodec adapts a pair of decode/encode funcs to DatasetCodec,
// avoiding one throwaway struct type per dataset shape.
type funcDatasetCodec struct {
	decode func(buf []byte) (interface{}, error)
	encode func(v interface{}) ([]byte, error)
}

func (c *funcDatasetCodec) DecodeDataset(buf []byte) (interface{}, error) {
	return c.decode(buf)
}

func (c *funcDatasetCodec) EncodeDataset(v interface{}) ([]byte, error) {
	if c.encode == nil {
		return nil, &wire.CodecError{Kind: wire.ErrValueOutOfRange, Msg: "dataset is decode-only"}
	}
	return c.encode(v)
}

// RawBytesDataset passes the data-phase payload through unchanged, used
// by operations (GetObject, partial-object reads, live-view) whose
// payload is handled by the camera layer rather than decoded generically.
var RawBytesDataset DatasetCodec = &funcDatasetCodec{
	decode: func(buf []byte) (interface{}, error) { return buf, nil },
	encode: func(v interface{}) ([]byte, error) {
		b, ok := v.([]byte)
		if !ok {
			return nil, &wire.CodecError{Kind: wire.ErrValueOutOfRange, Msg: "not a byte slice"}
		}
		return b, nil
	},
}

var DeviceInfoDataset DatasetCodec = &funcDatasetCodec{
	decode: func(buf []byte) (interface{}, error) {
		return wire.DecodeDeviceInfo(wire.NewReader(buf, wire.LittleEndian))
	},
}

var ObjectInfoDataset DatasetCodec = &funcDatasetCodec{
	decode: func(buf []byte) (interface{}, error) {
		return wire.DecodeObjectInfo(wire.NewReader(buf, wire.LittleEndian))
	},
	encode: func(v interface{}) ([]byte, error) {
		oi, ok := v.(*wire.ObjectInfo)
		if !ok {
			return nil, &wire.CodecError{Kind: wire.ErrValueOutOfRange, Msg: "not an *ObjectInfo"}
		}
		w := wire.NewWriter(wire.LittleEndian)
		wire.EncodeObjectInfo(w, oi)
		return w.Bytes(), nil
	},
}

var StorageInfoDataset DatasetCodec = &funcDatasetCodec{
	decode: func(buf []byte) (interface{}, error) {
		return wire.DecodeStorageInfo(wire.NewReader(buf, wire.LittleEndian))
	},
}

var DevicePropDescDataset DatasetCodec = &funcDatasetCodec{
	decode: func(buf []byte) (interface{}, error) {
		return wire.DecodeDevicePropDesc(wire.NewReader(buf, wire.LittleEndian))
	},
}

var DevicePropDescExDataset DatasetCodec = &funcDatasetCodec{
	decode: func(buf []byte) (interface{}, error) {
		return wire.DecodeDevicePropDescEx(wire.NewReader(buf, wire.LittleEndian))
	},
}

var SonySDIPropDescDataset DatasetCodec = &funcDatasetCodec{
	decode: func(buf []byte) (interface{}, error) {
		return wire.DecodeSonySDIPropDesc(wire.NewReader(buf, wire.LittleEndian))
	},
}

var CanonEventDataDataset DatasetCodec = &funcDatasetCodec{
	decode: func(buf []byte) (interface{}, error) {
		return wire.DecodeCanonEvents(buf)
	},
}

var SonyLiveViewDataset DatasetCodec = &funcDatasetCodec{
	decode: func(buf []byte) (interface{}, error) {
		return wire.DecodeSonyLiveViewFrame(buf)
	},
}
