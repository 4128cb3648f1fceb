package registry

import "github.com/ptphost/go-ptp/wire"

// Canon EOS vendor operation codes. SetRemoteMode, RemoteReleaseOn and
// RemoteReleaseOff are named by spec.md §4.9/§6. SetEventMode is not
// named by the spec, but the operation is required for the Canon event
// cache to start populating at all; spec.md's REDESIGN FLAGS note that
// the draft's reuse of 0x9114 for both SetRemoteMode and SetEventMode is
// almost certainly a transcription error, since 0x9114 is SetRemoteMode
// in every Canon EOS reference implementation. SetEventMode is assigned
// 0x9115 here instead of colliding with SetRemoteMode — see DESIGN.md
// Open Question 4.
const (
	OpCanonGetEventData       uint16 = 0x9116
	OpCanonSetDevicePropValue uint16 = 0x9110
	OpCanonGetDevicePropValue uint16 = 0x9127
	OpCanonSetRemoteMode      uint16 = 0x9114
	OpCanonSetEventMode       uint16 = 0x9115
	OpCanonRemoteReleaseOn    uint16 = 0x9128
	OpCanonRemoteReleaseOff   uint16 = 0x9129
)

// Canon SetEventMode modes.
const (
	CanonEventModePolled uint32 = 0
	CanonEventModePush   uint32 = 1
)

// Canon RemoteReleaseOn shutter-stage parameter, matching the two-stage
// half/full press a physical shutter button makes.
const (
	CanonReleaseStageHalfPress uint32 = 1
	CanonReleaseStageFullPress uint32 = 2
)

var canonOperations = []*Operation{
	{
		Code: OpCanonGetEventData, Name: "GetEventData",
		Description:   "Drains the device's pending Canon event queue (CanonEvent records).",
		DataDirection: DataOut,
		DataCodec:     CanonEventDataDataset,
	},
	{
		Code: OpCanonSetDevicePropValue, Name: "CanonSetDevicePropValue",
		Description:   "Sets a Canon property; device state changes are only observable later via PropertyChanged events, never by reading the property back directly.",
		DataDirection: DataIn,
		DataCodec:     RawBytesDataset,
		OperationParams: []Param{
			{Name: "DevicePropCode", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpCanonGetDevicePropValue, Name: "CanonGetDevicePropValue",
		Description:   "Requests that the device emit a PropertyChanged event carrying the property's current value; Canon properties are never read synchronously.",
		DataDirection: DataNone,
		OperationParams: []Param{
			{Name: "DevicePropCode", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpCanonSetRemoteMode, Name: "SetRemoteMode",
		Description:   "Enables Canon's remote-control operating mode.",
		DataDirection: DataNone,
		OperationParams: []Param{
			{Name: "Mode", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpCanonSetEventMode, Name: "SetEventMode",
		Description:   "Selects polled vs. push event delivery.",
		DataDirection: DataNone,
		OperationParams: []Param{
			{Name: "Mode", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpCanonRemoteReleaseOn, Name: "RemoteReleaseOn",
		Description:   "Begins a remote shutter press at the given stage (half or full).",
		DataDirection: DataNone,
		OperationParams: []Param{
			{Name: "Stage", Codec: wire.Uint32Codec, Required: true},
		},
	},
	{
		Code: OpCanonRemoteReleaseOff, Name: "RemoteReleaseOff",
		Description:   "Releases a remote shutter press at the given stage.",
		DataDirection: DataNone,
		OperationParams: []Param{
			{Name: "Stage", Codec: wire.Uint32Codec, Required: true},
		},
	},
}

var canonProperties = []*Property{
	// ShutterSpeed and Aperture are cached as raw Canon event values: the
	// vendor SDK's on-the-wire encoding for these two (APEX-derived, not
	// PTP's standard FNumber/ExposureTime layout) isn't given by spec.md,
	// so they pass through as plain integers rather than guessing an
	// undocumented format. ISOSpeed is pinned to 0xD101 and reuses the
	// standard IsoCodec, which spec.md's Canon event-cache example
	// exercises directly (cached 0x01F4 decodes to "ISO 500").
	{Code: 0xD101, Name: "ISOSpeed", Datatype: wire.TypeUint32, Access: AccessGetSet, Codec: wire.IsoCodec},
	{Code: 0xD102, Name: "ShutterSpeed", Datatype: wire.TypeUint32, Access: AccessGetSet, Codec: wire.Uint32Codec},
	{Code: 0xD104, Name: "Aperture", Datatype: wire.TypeUint32, Access: AccessGetSet, Codec: wire.Uint32Codec},
	{Code: 0xD402, Name: "ModelID", Datatype: wire.TypeUint32, Access: AccessGet, Codec: wire.Uint32Codec},
	{Code: 0xD407, Name: "BatteryPower", Datatype: wire.TypeUint8, Access: AccessGet, Codec: wire.Uint8Codec},
	{Code: 0xD408, Name: "BatterySelect", Datatype: wire.TypeUint8, Access: AccessGet, Codec: wire.Uint8Codec},
	{Code: 0xD10D, Name: "AvailableShots", Datatype: wire.TypeUint32, Access: AccessGet, Codec: wire.Uint32Codec},
	{Code: 0xD1A9, Name: "DriveMode", Datatype: wire.TypeUint32, Access: AccessGetSet, Codec: wire.Uint32Codec},
	{Code: 0xD1C1, Name: "LiveViewStatus", Datatype: wire.TypeUint32, Access: AccessGet, Codec: wire.Uint32Codec},
}

// Canon builds the Canon-specialized Registry as a vendor overlay merged
// over the generic standard Registry.
func Canon(littleEndian bool) *Registry {
	overlay := New(littleEndian, canonOperations, nil, canonProperties, nil, nil)
	return Merge(Standard(littleEndian), overlay)
}
