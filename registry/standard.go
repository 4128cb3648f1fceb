package registry

import "github.com/ptphost/go-ptp/wire"

// Standard PTP operation codes, PIMA 15740 table (0x1xxx range).
const (
	OpGetDeviceInfo      uint16 = 0x1001
	OpOpenSession        uint16 = 0x1002
	OpCloseSession       uint16 = 0x1003
	OpGetStorageIDs      uint16 = 0x1004
	OpGetStorageInfo     uint16 = 0x1005
	OpGetNumObjects      uint16 = 0x1006
	OpGetObjectHandles   uint16 = 0x1007
	OpGetObjectInfo      uint16 = 0x1008
	OpGetObject          uint16 = 0x1009
	OpGetThumb           uint16 = 0x100A
	OpDeleteObject       uint16 = 0x100B
	OpSendObjectInfo     uint16 = 0x100C
	OpSendObject         uint16 = 0x100D
	OpInitiateCapture    uint16 = 0x100E
	OpFormatStore        uint16 = 0x100F
	OpResetDevice        uint16 = 0x1010
	OpGetDevicePropDesc  uint16 = 0x1014
	OpGetDevicePropValue uint16 = 0x1015
	OpSetDevicePropValue uint16 = 0x1016
	OpGetPartialObject   uint16 = 0x101B
)

// Standard PTP response codes (0x2xxx range).
const (
	RespOK                     uint16 = 0x2001
	RespGeneralError           uint16 = 0x2002
	RespSessionNotOpen         uint16 = 0x2003
	RespInvalidTransactionID   uint16 = 0x2004
	RespOperationNotSupported  uint16 = 0x2005
	RespParameterNotSupported  uint16 = 0x2006
	RespIncompleteTransfer     uint16 = 0x2007
	RespInvalidStorageID       uint16 = 0x2008
	RespInvalidObjectHandle    uint16 = 0x2009
	RespDevicePropNotSupported uint16 = 0x200A
	RespStoreFull              uint16 = 0x200C
	RespAccessDenied           uint16 = 0x200F
	RespDeviceBusy             uint16 = 0x2019
	RespInvalidParameter       uint16 = 0x201D
	RespSessionAlreadyOpen     uint16 = 0x201E
	RespTransactionCancelled   uint16 = 0x201F
)

// Standard PTP event codes (0x4xxx range).
const (
	EvtCancelTransaction uint16 = 0x4001
	EvtObjectAdded       uint16 = 0x4002
	EvtObjectRemoved     uint16 = 0x4003
	EvtStoreAdded        uint16 = 0x4004
	EvtStoreRemoved      uint16 = 0x4005
	EvtDevicePropChanged uint16 = 0x4006
	EvtCaptureComplete   uint16 = 0x400D
)

// Standard PTP device property codes (0x5xxx range).
const (
	PropBatteryLevel               uint16 = 0x5001
	PropImageSize                  uint16 = 0x5003
	PropWhiteBalance                uint16 = 0x5005
	PropFNumber                    uint16 = 0x5007 // aperture
	PropFocalLength                uint16 = 0x5008
	PropFocusMode                  uint16 = 0x500A
	PropExposureTime               uint16 = 0x500D // shutter speed
	PropExposureProgramMode        uint16 = 0x500E
	PropExposureIndex              uint16 = 0x500F // ISO (film speed)
	PropExposureBiasCompensation   uint16 = 0x5010
)

// Standard PTP object/capture format codes (0x3xxx range).
const (
	FormatUndefined   uint16 = 0x3000
	FormatAssociation uint16 = 0x3001
	FormatEXIFJPEG    uint16 = 0x3801
	FormatTIFF        uint16 = 0x380D
)

var standardOperations = []*Operation{
	{
		Code: OpGetDeviceInfo, Name: "GetDeviceInfo",
		Description:   "Returns the responder's DeviceInfo dataset.",
		DataDirection: DataOut,
		DataCodec:     DeviceInfoDataset,
	},
	{
		Code: OpOpenSession, Name: "OpenSession",
		Description:   "Opens a session, the required precondition for any other operation.",
		DataDirection: DataNone,
		OperationParams: []Param{
			{Name: "SessionID", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpCloseSession, Name: "CloseSession",
		Description:   "Closes the currently open session.",
		DataDirection: DataNone,
	},
	{
		Code: OpGetStorageIDs, Name: "GetStorageIDs",
		Description:   "Returns the array of storage IDs available on the responder.",
		DataDirection: DataOut,
		DataCodec:     RawBytesDataset,
	},
	{
		Code: OpGetStorageInfo, Name: "GetStorageInfo",
		Description:   "Returns the StorageInfo dataset for one storage ID.",
		DataDirection: DataOut,
		DataCodec:     StorageInfoDataset,
		OperationParams: []Param{
			{Name: "StorageID", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpGetObjectHandles, Name: "GetObjectHandles",
		Description:   "Returns the array of object handles matching the given filter.",
		DataDirection: DataOut,
		DataCodec:     RawBytesDataset,
		OperationParams: []Param{
			{Name: "StorageID", Codec: wire.Uint32Codec, Required: true},
			{Name: "ObjectFormatCode", Codec: wire.Uint32Codec},
			{Name: "AssociationOH", Codec: wire.Uint32Codec},
		},
	},
	{
		Code: OpGetObjectInfo, Name: "GetObjectInfo",
		Description:   "Returns the ObjectInfo dataset for one object handle.",
		DataDirection: DataOut,
		DataCodec:     ObjectInfoDataset,
		OperationParams: []Param{
			{Name: "ObjectHandle", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpGetObject, Name: "GetObject",
		Description:   "Returns the binary content of one object.",
		DataDirection: DataOut,
		DataCodec:     RawBytesDataset,
		OperationParams: []Param{
			{Name: "ObjectHandle", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpGetThumb, Name: "GetThumb",
		Description:   "Returns the thumbnail content of one object.",
		DataDirection: DataOut,
		DataCodec:     RawBytesDataset,
		OperationParams: []Param{
			{Name: "ObjectHandle", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpInitiateCapture, Name: "InitiateCapture",
		Description:   "Instructs a storage-device-class responder to capture a new object.",
		DataDirection: DataNone,
		OperationParams: []Param{
			{Name: "StorageID", Codec: wire.Uint32Codec},
			{Name: "ObjectFormatCode", Codec: wire.Uint32Codec},
		},
	},
	{
		Code: OpGetDevicePropDesc, Name: "GetDevicePropDesc",
		Description:   "Returns the DevicePropDesc dataset for one property code.",
		DataDirection: DataOut,
		DataCodec:     DevicePropDescDataset,
		OperationParams: []Param{
			{Name: "DevicePropCode", Codec: wire.Uint16Codec, Required: true},
		},
	},
	{
		Code: OpGetDevicePropValue, Name: "GetDevicePropValue",
		Description:   "Returns the current value of one device property.",
		DataDirection: DataOut,
		DataCodec:     RawBytesDataset,
		OperationParams: []Param{
			{Name: "DevicePropCode", Codec: wire.Uint16Codec, Required: true},
		},
	},
	{
		Code: OpSetDevicePropValue, Name: "SetDevicePropValue",
		Description:   "Sets the value of one device property.",
		DataDirection: DataIn,
		DataCodec:     RawBytesDataset,
		OperationParams: []Param{
			{Name: "DevicePropCode", Codec: wire.Uint16Codec, Required: true},
		},
	},
	{
		Code: OpGetPartialObject, Name: "GetPartialObject",
		Description:   "Returns a byte range of one object's content.",
		DataDirection: DataOut,
		DataCodec:     RawBytesDataset,
		OperationParams: []Param{
			{Name: "ObjectHandle", Codec: wire.Uint32Codec, Required: true},
			{Name: "Offset", Codec: wire.Uint32Codec, Required: true},
			{Name: "MaxBytes", Codec: wire.Uint32Codec, Required: true},
		},
		ResponseParams: []Param{
			{Name: "BytesRead", Codec: wire.Uint32Codec},
		},
	},
}

var standardResponses = []*Response{
	{Code: RespOK, Name: "OK", Description: "Operation completed successfully."},
	{Code: RespGeneralError, Name: "GeneralError"},
	{Code: RespSessionNotOpen, Name: "SessionNotOpen"},
	{Code: RespInvalidTransactionID, Name: "InvalidTransactionID"},
	{Code: RespOperationNotSupported, Name: "OperationNotSupported"},
	{Code: RespParameterNotSupported, Name: "ParameterNotSupported"},
	{Code: RespIncompleteTransfer, Name: "IncompleteTransfer"},
	{Code: RespInvalidStorageID, Name: "InvalidStorageID"},
	{Code: RespInvalidObjectHandle, Name: "InvalidObjectHandle"},
	{Code: RespDevicePropNotSupported, Name: "DevicePropNotSupported"},
	{Code: RespStoreFull, Name: "StoreFull"},
	{Code: RespAccessDenied, Name: "AccessDenied"},
	{Code: RespDeviceBusy, Name: "DeviceBusy"},
	{Code: RespInvalidParameter, Name: "InvalidParameter"},
	{Code: RespSessionAlreadyOpen, Name: "SessionAlreadyOpen"},
	{Code: RespTransactionCancelled, Name: "TransactionCancelled"},
}

var standardEvents = []*Event{
	{Code: EvtCancelTransaction, Name: "CancelTransaction"},
	{
		Code: EvtObjectAdded, Name: "ObjectAdded",
		Parameters: []EventParam{{Name: "ObjectHandle", Codec: wire.Uint32Codec}},
	},
	{
		Code: EvtObjectRemoved, Name: "ObjectRemoved",
		Parameters: []EventParam{{Name: "ObjectHandle", Codec: wire.Uint32Codec}},
	},
	{Code: EvtStoreAdded, Name: "StoreAdded"},
	{Code: EvtStoreRemoved, Name: "StoreRemoved"},
	{
		Code: EvtDevicePropChanged, Name: "DevicePropChanged",
		Parameters: []EventParam{{Name: "DevicePropCode", Codec: wire.Uint32Codec}},
	},
	{Code: EvtCaptureComplete, Name: "CaptureComplete"},
}

var standardProperties = []*Property{
	{Code: PropBatteryLevel, Name: "BatteryLevel", Datatype: wire.TypeUint8, Access: AccessGet, Codec: wire.Uint8Codec},
	{Code: PropImageSize, Name: "ImageSize", Datatype: wire.TypeString, Access: AccessGetSet, Codec: wire.StringCodec},
	{Code: PropWhiteBalance, Name: "WhiteBalance", Datatype: wire.TypeUint16, Access: AccessGetSet, Codec: wire.Uint16Codec},
	{Code: PropFNumber, Name: "FNumber", Datatype: wire.TypeUint16, Access: AccessGetSet, Codec: wire.ApertureCodec},
	{Code: PropFocalLength, Name: "FocalLength", Datatype: wire.TypeUint32, Access: AccessGet, Codec: wire.Uint32Codec},
	{Code: PropFocusMode, Name: "FocusMode", Datatype: wire.TypeUint16, Access: AccessGetSet, Codec: wire.Uint16Codec},
	{Code: PropExposureTime, Name: "ExposureTime", Datatype: wire.TypeUint32, Access: AccessGetSet, Codec: wire.ShutterCodec},
	{Code: PropExposureProgramMode, Name: "ExposureProgramMode", Datatype: wire.TypeUint16, Access: AccessGetSet, Codec: wire.Uint16Codec},
	{Code: PropExposureIndex, Name: "ExposureIndex", Datatype: wire.TypeUint32, Access: AccessGetSet, Codec: wire.IsoCodec},
	{Code: PropExposureBiasCompensation, Name: "ExposureBiasCompensation", Datatype: wire.TypeInt16, Access: AccessGetSet, Codec: wire.Int16Codec},
}

var standardFormats = []*Format{
	{Code: FormatUndefined, Name: "Undefined"},
	{Code: FormatAssociation, Name: "Association"},
	{Code: FormatEXIFJPEG, Name: "EXIF/JPEG"},
	{Code: FormatTIFF, Name: "TIFF"},
}

// Standard builds the generic, vendor-neutral Registry for a given wire
// endianness (USB transport is little-endian; the stubbed PTP/IP
// transport is big-endian).
func Standard(littleEndian bool) *Registry {
	return New(littleEndian, standardOperations, standardResponses, standardProperties, standardEvents, standardFormats)
}
