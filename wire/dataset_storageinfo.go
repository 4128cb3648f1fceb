package wire

// StorageInfo is the PTP GetStorageInfo response dataset, spec.md §3 table.
type StorageInfo struct {
	StorageType         uint16
	FilesystemType       uint16
	AccessCapability     uint16
	MaxCapacity          uint64
	FreeSpaceInBytes     uint64
	FreeSpaceInImages    uint32
	StorageDescription   string
	VolumeLabel          string
}

func DecodeStorageInfo(r *Reader) (*StorageInfo, error) {
	var s StorageInfo
	var err error

	if s.StorageType, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if s.FilesystemType, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if s.AccessCapability, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if s.MaxCapacity, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if s.FreeSpaceInBytes, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if s.FreeSpaceInImages, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if s.StorageDescription, err = r.ReadPTPString(); err != nil {
		return nil, err
	}
	if s.VolumeLabel, err = r.ReadPTPString(); err != nil {
		return nil, err
	}

	return &s, nil
}
