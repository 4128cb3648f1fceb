package registry

import "github.com/ptphost/go-ptp/wire"

// Nikon vendor operation codes, named by spec.md §4.9.
const (
	OpNikonGetDevicePropDescEx uint16 = 0x943A
	OpNikonSetDevicePropValueEx uint16 = 0x943C
	OpNikonGetPartialObjectEx  uint16 = 0x9431
)

var nikonOperations = []*Operation{
	{
		Code: OpNikonGetDevicePropDescEx, Name: "GetDevicePropDescEx",
		Description:   "Returns the extended (4-byte code) DevicePropDesc for a Nikon property.",
		DataDirection: DataOut,
		DataCodec:     DevicePropDescExDataset,
		OperationParams: []Param{
			{Name: "DevicePropCode", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpNikonSetDevicePropValueEx, Name: "SetDevicePropValueEx",
		Description:   "Sets a Nikon property value using the DevicePropDesc's declared datatype codec.",
		DataDirection: DataIn,
		DataCodec:     RawBytesDataset,
		OperationParams: []Param{
			{Name: "DevicePropCode", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpNikonGetPartialObjectEx, Name: "GetPartialObjectEx",
		Description:   "Reads a byte range of an object using a 64-bit offset split across two u32 parameters.",
		DataDirection: DataOut,
		DataCodec:     RawBytesDataset,
		OperationParams: []Param{
			{Name: "ObjectHandle", Codec: wire.Uint32Codec, Required: true},
			{Name: "OffsetLower", Codec: wire.Uint32Codec, Required: true},
			{Name: "OffsetUpper", Codec: wire.Uint32Codec, Required: true},
			{Name: "MaxBytes", Codec: wire.Uint32Codec, Required: true},
		},
		ResponseParams: []Param{
			{Name: "ActualBytesSent", Codec: wire.Uint32Codec},
		},
	},
}

var nikonProperties = []*Property{
	{Code: 0xD02A, Name: "ApplicationMode", Datatype: wire.TypeUint16, Access: AccessGetSet, Codec: wire.Uint16Codec},
	{Code: 0xD061, Name: "FirmwareVersion", Datatype: wire.TypeString, Access: AccessGet, Codec: wire.StringCodec},
	{Code: 0xD1B0, Name: "ChangeLiveViewOutputDevice", Datatype: wire.TypeUint8, Access: AccessGetSet, Codec: wire.Uint8Codec},
	{Code: 0xD1B1, Name: "MovRecProhibitCondition", Datatype: wire.TypeUint32, Access: AccessGet, Codec: wire.Uint32Codec},
	{Code: 0xD1D3, Name: "LiveViewStatus", Datatype: wire.TypeUint8, Access: AccessGet, Codec: wire.Uint8Codec},
	{Code: 0xD1D4, Name: "LiveViewImageZoomRatio", Datatype: wire.TypeUint8, Access: AccessGetSet, Codec: wire.Uint8Codec},
	{Code: 0xD1D8, Name: "LiveViewSelector", Datatype: wire.TypeUint8, Access: AccessGetSet, Codec: wire.Uint8Codec},
	{Code: 0xD205, Name: "MaximumShots", Datatype: wire.TypeUint16, Access: AccessGet, Codec: wire.Uint16Codec},
	{Code: 0xD2C1, Name: "MovieRecordMemory", Datatype: wire.TypeUint8, Access: AccessGetSet, Codec: wire.Uint8Codec},
}

var nikonEvents = []*Event{
	{Code: 0xC101, Name: "ObjectAddedInSDRAM", Parameters: []EventParam{{Name: "ObjectHandle", Codec: wire.Uint32Codec}}},
	{Code: 0xC102, Name: "CaptureCompleteRecInSdram", Parameters: nil},
	{Code: 0xC104, Name: "AdvancedTransfer", Parameters: []EventParam{{Name: "ObjectHandle", Codec: wire.Uint32Codec}}},
}

// Nikon LiveViewStatus values.
const (
	NikonLiveViewOff uint8 = 0
	NikonLiveViewOn  uint8 = 1
)

// Nikon builds the Nikon-specialized Registry as a vendor overlay merged
// over the generic standard Registry.
func Nikon(littleEndian bool) *Registry {
	overlay := New(littleEndian, nikonOperations, nil, nikonProperties, nikonEvents, nil)
	return Merge(Standard(littleEndian), overlay)
}
