package wire

// ObjectInfo is the PTP GetObjectInfo response dataset, spec.md §3 table.
type ObjectInfo struct {
	StorageID             uint32
	ObjectFormat          uint16
	ProtectionStatus      uint16
	ObjectCompressedSize  uint32
	ThumbFormat           uint16
	ThumbCompressedSize   uint32
	ThumbPixWidth         uint32
	ThumbPixHeight        uint32
	ImagePixWidth         uint32
	ImagePixHeight        uint32
	ImageBitDepth         uint32
	ParentObject          uint32
	AssociationType       uint16
	AssociationDesc       uint32
	SequenceNumber        uint32
	Filename              string
	CaptureDate           string
	ModificationDate      string
	Keywords              string
}

func DecodeObjectInfo(r *Reader) (*ObjectInfo, error) {
	var o ObjectInfo
	var err error

	if o.StorageID, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if o.ObjectFormat, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if o.ProtectionStatus, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if o.ObjectCompressedSize, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if o.ThumbFormat, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if o.ThumbCompressedSize, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if o.ThumbPixWidth, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if o.ThumbPixHeight, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if o.ImagePixWidth, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if o.ImagePixHeight, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if o.ImageBitDepth, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if o.ParentObject, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if o.AssociationType, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if o.AssociationDesc, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if o.SequenceNumber, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if o.Filename, err = r.ReadPTPString(); err != nil {
		return nil, err
	}
	if o.CaptureDate, err = r.ReadPTPString(); err != nil {
		return nil, err
	}
	if o.ModificationDate, err = r.ReadPTPString(); err != nil {
		return nil, err
	}
	if o.Keywords, err = r.ReadPTPString(); err != nil {
		return nil, err
	}

	return &o, nil
}

// EncodeObjectInfo serializes an ObjectInfo, used by tests and by any
// responder-side tooling exercising the codec symmetrically.
func EncodeObjectInfo(w *Writer, o *ObjectInfo) {
	w.WriteU32(o.StorageID)
	w.WriteU16(o.ObjectFormat)
	w.WriteU16(o.ProtectionStatus)
	w.WriteU32(o.ObjectCompressedSize)
	w.WriteU16(o.ThumbFormat)
	w.WriteU32(o.ThumbCompressedSize)
	w.WriteU32(o.ThumbPixWidth)
	w.WriteU32(o.ThumbPixHeight)
	w.WriteU32(o.ImagePixWidth)
	w.WriteU32(o.ImagePixHeight)
	w.WriteU32(o.ImageBitDepth)
	w.WriteU32(o.ParentObject)
	w.WriteU16(o.AssociationType)
	w.WriteU32(o.AssociationDesc)
	w.WriteU32(o.SequenceNumber)
	w.WritePTPString(o.Filename)
	w.WritePTPString(o.CaptureDate)
	w.WritePTPString(o.ModificationDate)
	w.WritePTPString(o.Keywords)
}
