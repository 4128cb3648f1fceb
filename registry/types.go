// Package registry is the single source of truth mapping PTP operation
// codes, response codes, property codes, event codes and datatypes to
// their parameter layouts, data-phase codecs and access rules. No code in
// this module should hard-code a PTP hex constant outside this package;
// everything consults a Registry instance instead.
package registry

import "github.com/ptphost/go-ptp/wire"

// DataDirection is an operation's data-phase direction, spec.md §3.
type DataDirection int

const (
	DataNone DataDirection = iota
	DataIn                 // host -> device
	DataOut                // device -> host
)

// Access is a property's access mode, spec.md §3.
type Access int

const (
	AccessGet Access = iota
	AccessGetSet
)

// Param describes one operation parameter or response parameter.
type Param struct {
	Name        string
	Description string
	Codec       wire.Codec
	Required    bool
}

// Operation is a named PTP verb: a code, up to five u32 parameters, a
// data-phase direction, and response parameters.
type Operation struct {
	Code            uint16
	Name            string
	Description     string
	DataDirection   DataDirection
	DataCodec       DatasetCodec
	OperationParams []Param
	ResponseParams  []Param
}

// DatasetCodec is the erased codec used for an operation's data phase; it
// decodes the whole data-phase payload into a typed value (DeviceInfo,
// ObjectInfo, a raw byte slice, ...). Encode is only required for
// operations that actually carry a data-in phase.
type DatasetCodec interface {
	DecodeDataset(buf []byte) (interface{}, error)
	EncodeDataset(v interface{}) ([]byte, error)
}

// Property is a named, coded camera state value with a declared datatype
// and access mode.
type Property struct {
	Code        uint16
	Name        string
	Description string
	Datatype    wire.DataType
	Access      Access
	Codec       wire.Codec
}

// EventParam describes one parameter carried by an event.
type EventParam struct {
	Name  string
	Codec wire.Codec
}

// Event is a named, coded asynchronous notification.
type Event struct {
	Code        uint16
	Name        string
	Description string
	Parameters  []EventParam
}

// Response is a named, coded PTP response.
type Response struct {
	Code        uint16
	Name        string
	Description string
}

// Format is a named, coded object/capture format.
type Format struct {
	Code uint16
	Name string
}
