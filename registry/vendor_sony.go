package registry

import "github.com/ptphost/go-ptp/wire"

// Sony SDIO operation codes (0x9xxx vendor range). Only
// SDIO_GetExtDevicePropValue's general shape and the named three-phase
// auth sequence are documented by spec.md §4.9/§6; the exact vendor SDK
// hex values for the rest are not given by the spec (only named by
// function), so they are assigned here within the correct 0x92xx vendor
// sub-range rather than invented arbitrarily — see DESIGN.md.
const (
	OpSDIOConnect                 uint16 = 0x9201
	OpSDIOOpenSession             uint16 = 0x9202
	OpSDIOGetExtDeviceInfo        uint16 = 0x9203
	OpSDIOGetExtDevicePropValue   uint16 = 0x9204
	OpSDIOSetExtDevicePropValue   uint16 = 0x9205
	OpSDIOControlDevice           uint16 = 0x9206
	OpSDIOGetPartialLargeObject   uint16 = 0x9207
)

// SDIO_Connect phases, per spec.md §4.9's three-phase handshake.
const (
	SDIOConnectPhase1 uint32 = 1
	SDIOConnectPhase2 uint32 = 2
	SDIOConnectPhase3 uint32 = 3
)

// SDIO_OpenSession FunctionMode values.
const SDIOFunctionModeRemoteAndContentTransfer uint32 = 2

// SonyLiveViewObjectHandle is the fixed handle spec.md §6 names for
// reading the Sony live-view stream via GetObject-shaped access.
const SonyLiveViewObjectHandle uint32 = 0xFFFFC002

var sonyOperations = []*Operation{
	{
		Code: OpSDIOConnect, Name: "SDIO_Connect",
		Description:   "Sony three-phase connection handshake.",
		DataDirection: DataNone,
		OperationParams: []Param{
			{Name: "Phase", Codec: wire.Uint32Codec, Required: true},
			{Name: "Param2", Codec: wire.Uint32Codec},
			{Name: "Param3", Codec: wire.Uint32Codec},
		},
	},
	{
		Code: OpSDIOOpenSession, Name: "SDIO_OpenSession",
		Description:   "Opens a session with Sony's FunctionMode parameter.",
		DataDirection: DataNone,
		OperationParams: []Param{
			{Name: "SessionID", Codec: wire.Uint32Codec, Required: true},
			{Name: "FunctionMode", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpSDIOGetExtDeviceInfo, Name: "SDIO_GetExtDeviceInfo",
		Description:   "Completes the Sony auth handshake and returns extended device info.",
		DataDirection: DataOut,
		DataCodec:     DeviceInfoDataset,
		OperationParams: []Param{
			{Name: "InitiatorVersion", Codec: wire.Uint32Codec, Required: true},
			{Name: "FlagOfDevicePropertyOption", Codec: wire.Uint32Codec},
		},
	},
	{
		Code: OpSDIOGetExtDevicePropValue, Name: "SDIO_GetExtDevicePropValue",
		Description:   "Returns a Sony extended-property descriptor (SonySDIPropDesc).",
		DataDirection: DataOut,
		DataCodec:     SonySDIPropDescDataset,
		OperationParams: []Param{
			{Name: "DevicePropCode", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpSDIOSetExtDevicePropValue, Name: "SDIO_SetExtDevicePropValue",
		Description:   "Sets a Sony extended property's value.",
		DataDirection: DataIn,
		DataCodec:     RawBytesDataset,
		OperationParams: []Param{
			{Name: "DevicePropCode", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpSDIOControlDevice, Name: "SDIO_ControlDevice",
		Description:   "Sets a Sony control-only property (shutter/S1S2/liveview toggle).",
		DataDirection: DataIn,
		DataCodec:     RawBytesDataset,
		OperationParams: []Param{
			{Name: "DevicePropCode", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpSDIOGetPartialLargeObject, Name: "SDIO_GetPartialLargeObject",
		Description:   "Reads a byte range of a large object using a 64-bit offset split across two u32 parameters.",
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

var sonyProperties = []*Property{
	{Code: 0xD001, Name: "PositionKeySetting", Datatype: wire.TypeUint16, Access: AccessGetSet, Codec: wire.Uint16Codec},
	{Code: 0xD002, Name: "StillImageSaveDestination", Datatype: wire.TypeUint16, Access: AccessGetSet, Codec: wire.Uint16Codec},
	{Code: 0xD003, Name: "SetLiveViewEnable", Datatype: wire.TypeUint16, Access: AccessGetSet, Codec: wire.Uint16Codec},
	{Code: 0xD004, Name: "SetPostViewEnable", Datatype: wire.TypeUint16, Access: AccessGetSet, Codec: wire.Uint16Codec},
	{Code: 0xD005, Name: "S1S2Button", Datatype: wire.TypeUint16, Access: AccessGetSet, Codec: wire.Uint16Codec},
	{Code: 0xD006, Name: "ShutterReleaseButton", Datatype: wire.TypeUint16, Access: AccessGetSet, Codec: wire.Uint16Codec},
	{Code: 0xD007, Name: "ShutterHalfReleaseButton", Datatype: wire.TypeUint16, Access: AccessGetSet, Codec: wire.Uint16Codec},
	{Code: 0xD008, Name: "MovieRecButton", Datatype: wire.TypeUint16, Access: AccessGetSet, Codec: wire.Uint16Codec},
	{Code: 0xD009, Name: "AFStatus", Datatype: wire.TypeUint16, Access: AccessGet, Codec: wire.Uint16Codec},
	{Code: 0xD00A, Name: "ContentTransferEnable", Datatype: wire.TypeUint16, Access: AccessGetSet, Codec: wire.Uint16Codec},
	{Code: 0xD20D, Name: "ObjectHandle", Datatype: wire.TypeUint32, Access: AccessGet, Codec: wire.Uint32Codec},
}

var sonyEvents = []*Event{
	{Code: 0xC201, Name: "AFStatus", Parameters: []EventParam{{Name: "Status", Codec: wire.Uint32Codec}}},
	{Code: 0xC202, Name: "ObjectAdded", Parameters: []EventParam{{Name: "ObjectHandle", Codec: wire.Uint32Codec}}},
}

// Sony button/state values used by VendorHooks set() branching on names
// like "ShutterReleaseButton".
const (
	SonyButtonUp   uint16 = 1
	SonyButtonDown uint16 = 2
	SonyEnable     uint16 = 2
	SonyDisable    uint16 = 1
	SonyCameraDestination uint16 = 1
	SonyHostPriority      uint16 = 2
)

// Sony AF status values, distinguished as focused vs. not.
const (
	SonyAFUnlocked uint32 = 0
	SonyAFSFocused uint32 = 2 // AF_S_FOCUSED
	SonyAFFailed   uint32 = 5
)

// Sony builds the Sony-specialized Registry as a vendor overlay merged
// over the generic standard Registry.
func Sony(littleEndian bool) *Registry {
	overlay := New(littleEndian, sonyOperations, nil, sonyProperties, sonyEvents, nil)
	return Merge(Standard(littleEndian), overlay)
}
