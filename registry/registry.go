package registry

import "fmt"

// Registry is the immutable, per-transport-endianness bundle of base
// codecs, datatypes, operations, responses, properties, events and
// formats described by spec.md §3/§4.4. It is the only object core
// business code consults; nothing outside this package should hard-code
// a PTP hex constant. A Registry is built once by New/Merge and never
// mutated afterward — vendor registries are produced by shallow-merging
// vendor tables over the generic ones, never by mutating the generic
// tables in place.
type Registry struct {
	LittleEndian bool

	operationsByCode map[uint16]*Operation
	operationsByName map[string]*Operation
	responsesByCode  map[uint16]*Response
	responsesByName  map[string]*Response
	propertiesByCode map[uint16]*Property
	propertiesByName map[string]*Property
	eventsByCode     map[uint16]*Event
	eventsByName     map[string]*Event
	formatsByCode    map[uint16]*Format
}

// New builds a Registry from the given tables. Copies are taken so the
// caller's slices can be discarded or reused without aliasing the
// Registry's internal state.
func New(littleEndian bool, operations []*Operation, responses []*Response, properties []*Property, events []*Event, formats []*Format) *Registry {
	r := &Registry{
		LittleEndian:     littleEndian,
		operationsByCode: make(map[uint16]*Operation, len(operations)),
		operationsByName: make(map[string]*Operation, len(operations)),
		responsesByCode:  make(map[uint16]*Response, len(responses)),
		responsesByName:  make(map[string]*Response, len(responses)),
		propertiesByCode: make(map[uint16]*Property, len(properties)),
		propertiesByName: make(map[string]*Property, len(properties)),
		eventsByCode:     make(map[uint16]*Event, len(events)),
		eventsByName:     make(map[string]*Event, len(events)),
		formatsByCode:    make(map[uint16]*Format, len(formats)),
	}
	for _, op := range operations {
		r.operationsByCode[op.Code] = op
		r.operationsByName[op.Name] = op
	}
	for _, resp := range responses {
		r.responsesByCode[resp.Code] = resp
		r.responsesByName[resp.Name] = resp
	}
	for _, p := range properties {
		r.propertiesByCode[p.Code] = p
		r.propertiesByName[p.Name] = p
	}
	for _, e := range events {
		r.eventsByCode[e.Code] = e
		r.eventsByName[e.Name] = e
	}
	for _, f := range formats {
		r.formatsByCode[f.Code] = f
	}
	return r
}

// Merge produces a new Registry that is the shallow merge of base with
// the vendor overlay: on code collisions the overlay entry wins
// ("override"); disjoint codes from the overlay are added ("extension").
// Neither base nor overlay is mutated.
func Merge(base *Registry, overlay *Registry) *Registry {
	merged := &Registry{
		LittleEndian:     base.LittleEndian,
		operationsByCode: cloneOps(base.operationsByCode),
		operationsByName: cloneOpsByName(base.operationsByName),
		responsesByCode:  cloneResp(base.responsesByCode),
		responsesByName:  cloneRespByName(base.responsesByName),
		propertiesByCode: cloneProp(base.propertiesByCode),
		propertiesByName: clonePropByName(base.propertiesByName),
		eventsByCode:     cloneEvent(base.eventsByCode),
		eventsByName:     cloneEventByName(base.eventsByName),
		formatsByCode:    cloneFormat(base.formatsByCode),
	}
	for code, op := range overlay.operationsByCode {
		merged.operationsByCode[code] = op
	}
	for name, op := range overlay.operationsByName {
		merged.operationsByName[name] = op
	}
	for code, resp := range overlay.responsesByCode {
		merged.responsesByCode[code] = resp
	}
	for name, resp := range overlay.responsesByName {
		merged.responsesByName[name] = resp
	}
	for code, p := range overlay.propertiesByCode {
		merged.propertiesByCode[code] = p
	}
	for name, p := range overlay.propertiesByName {
		merged.propertiesByName[name] = p
	}
	for code, e := range overlay.eventsByCode {
		merged.eventsByCode[code] = e
	}
	for name, e := range overlay.eventsByName {
		merged.eventsByName[name] = e
	}
	for code, f := range overlay.formatsByCode {
		merged.formatsByCode[code] = f
	}
	return merged
}

func cloneOps(m map[uint16]*Operation) map[uint16]*Operation {
	out := make(map[uint16]*Operation, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
func cloneOpsByName(m map[string]*Operation) map[string]*Operation {
	out := make(map[string]*Operation, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
func cloneResp(m map[uint16]*Response) map[uint16]*Response {
	out := make(map[uint16]*Response, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
func cloneRespByName(m map[string]*Response) map[string]*Response {
	out := make(map[string]*Response, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
func cloneProp(m map[uint16]*Property) map[uint16]*Property {
	out := make(map[uint16]*Property, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
func clonePropByName(m map[string]*Property) map[string]*Property {
	out := make(map[string]*Property, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
func cloneEvent(m map[uint16]*Event) map[uint16]*Event {
	out := make(map[uint16]*Event, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
func cloneEventByName(m map[string]*Event) map[string]*Event {
	out := make(map[string]*Event, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
func cloneFormat(m map[uint16]*Format) map[uint16]*Format {
	out := make(map[uint16]*Format, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (r *Registry) OperationByCode(code uint16) (*Operation, error) {
	op, ok := r.operationsByCode[code]
	if !ok {
		return nil, fmt.Errorf("registry: unknown operation code %#x", code)
	}
	return op, nil
}

func (r *Registry) OperationByName(name string) (*Operation, error) {
	op, ok := r.operationsByName[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown operation %q", name)
	}
	return op, nil
}

func (r *Registry) ResponseByCode(code uint16) (*Response, error) {
	resp, ok := r.responsesByCode[code]
	if !ok {
		return &Response{Code: code, Name: fmt.Sprintf("Unknown(%#x)", code)}, nil
	}
	return resp, nil
}

func (r *Registry) PropertyByCode(code uint16) (*Property, error) {
	p, ok := r.propertiesByCode[code]
	if !ok {
		return nil, fmt.Errorf("registry: unknown property code %#x", code)
	}
	return p, nil
}

func (r *Registry) PropertyByName(name string) (*Property, error) {
	p, ok := r.propertiesByName[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown property %q", name)
	}
	return p, nil
}

func (r *Registry) EventByCode(code uint16) (*Event, error) {
	e, ok := r.eventsByCode[code]
	if !ok {
		return &Event{Code: code, Name: fmt.Sprintf("Unknown(%#x)", code)}, nil
	}
	return e, nil
}

func (r *Registry) EventByName(name string) (*Event, error) {
	e, ok := r.eventsByName[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown event %q", name)
	}
	return e, nil
}

// AllEventCodes returns every event code known to r, for subscribing a
// transport's interrupt loop to the full set at engine construction time.
func AllEventCodes(r *Registry) []uint16 {
	codes := make([]uint16, 0, len(r.eventsByCode))
	for code := range r.eventsByCode {
		codes = append(codes, code)
	}
	return codes
}

func (r *Registry) FormatByCode(code uint16) (*Format, error) {
	f, ok := r.formatsByCode[code]
	if !ok {
		return &Format{Code: code, Name: fmt.Sprintf("Unknown(%#x)", code)}, nil
	}
	return f, nil
}
