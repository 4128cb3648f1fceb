package wire

import "fmt"

// ContainerType is the PTP USB container type, PIMA 15740 §D.
type ContainerType uint16

const (
	ContainerCommand  ContainerType = 1
	ContainerData     ContainerType = 2
	ContainerResponse ContainerType = 3
	ContainerEvent    ContainerType = 4
)

// ContainerHeaderSize is the 12-byte fixed header every container carries:
// length u32, type u16, code u16, transactionId u32.
const ContainerHeaderSize = 12

// MaxParams is the maximum number of u32 parameters a Command or Response
// container may carry.
const MaxParams = 5

// Container is one PIMA 15740 §D USB container: a 12-byte header plus an
// opaque payload. Commands carry up to five u32 parameters packed into
// Payload; Data containers carry opaque bytes; Response containers carry
// up to five u32 parameters; Event containers carry up to five u32
// parameters.
type Container struct {
	Type          ContainerType
	Code          uint16
	TransactionID uint32
	Payload       []byte
}

// Length returns the container's on-wire length field: 12 + len(Payload).
func (c *Container) Length() uint32 {
	return ContainerHeaderSize + uint32(len(c.Payload))
}

// Marshal frames c into its wire bytes: length, type, code, transactionId,
// payload, all little-endian (USB transport is always little-endian).
func (c *Container) Marshal() []byte {
	w := NewWriter(LittleEndian)
	w.WriteU32(c.Length())
	w.WriteU16(uint16(c.Type))
	w.WriteU16(c.Code)
	w.WriteU32(c.TransactionID)
	w.WriteBytes(c.Payload)
	return w.Bytes()
}

// ParseContainer re-parses a byte slice produced by Marshal (or received
// from the wire) back into a Container. The first 12 bytes must parse
// back to the same header fields that were encoded.
func ParseContainer(buf []byte) (*Container, error) {
	if len(buf) < ContainerHeaderSize {
		return nil, truncated(ContainerHeaderSize, len(buf))
	}
	r := NewReader(buf, LittleEndian)

	length, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	typ, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	code, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	tid, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	if typ < uint16(ContainerCommand) || typ > uint16(ContainerEvent) {
		return nil, fmt.Errorf("wire: invalid container type %#x", typ)
	}

	payloadLen := int(length) - ContainerHeaderSize
	if payloadLen < 0 {
		return nil, fmt.Errorf("wire: container length %d shorter than header", length)
	}
	// Accept a buffer that is exactly the container, or longer (the
	// caller may have read a larger chunk off the wire); never shorter.
	if len(buf) < int(length) {
		return nil, truncated(int(length), len(buf))
	}
	payload, err := r.ReadBytes(payloadLen)
	if err != nil {
		return nil, err
	}

	return &Container{
		Type:          ContainerType(typ),
		Code:          code,
		TransactionID: tid,
		Payload:       payload,
	}, nil
}

// EncodeParams packs up to MaxParams u32 parameters into a little-endian
// payload, as used by Command and Response containers.
func EncodeParams(params []uint32) []byte {
	w := NewWriter(LittleEndian)
	n := len(params)
	if n > MaxParams {
		n = MaxParams
	}
	for i := 0; i < n; i++ {
		w.WriteU32(params[i])
	}
	return w.Bytes()
}

// DecodeParams unpacks as many little-endian u32 parameters as fit in buf,
// up to MaxParams. Used to parse Response and Event container payloads.
func DecodeParams(buf []byte) []uint32 {
	r := NewReader(buf, LittleEndian)
	var params []uint32
	for len(params) < MaxParams && r.Remaining() >= 4 {
		v, err := r.ReadU32()
		if err != nil {
			break
		}
		params = append(params, v)
	}
	return params
}
