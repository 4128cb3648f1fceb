package wire

// DeviceInfo is the PTP GetDeviceInfo response dataset, spec.md §3 table.
type DeviceInfo struct {
	StandardVersion          uint16
	VendorExtensionID        uint32
	VendorExtensionVersion   uint16
	VendorExtensionDesc      string
	FunctionalMode           uint16
	OperationsSupported      []uint16
	EventsSupported          []uint16
	DevicePropertiesSupported []uint16
	CaptureFormats           []uint16
	ImageFormats             []uint16
	Manufacturer             string
	Model                    string
	DeviceVersion            string
	SerialNumber             string
}

// DecodeDeviceInfo decodes a DeviceInfo dataset in the field order given
// by spec.md §3. This is the device-to-host direction only; encode is not
// required (GetDeviceInfo never sends one host to device).
func DecodeDeviceInfo(r *Reader) (*DeviceInfo, error) {
	var d DeviceInfo
	var err error

	if d.StandardVersion, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if d.VendorExtensionID, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if d.VendorExtensionVersion, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if d.VendorExtensionDesc, err = r.ReadPTPString(); err != nil {
		return nil, err
	}
	if d.FunctionalMode, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if d.OperationsSupported, err = r.ReadU16Array(); err != nil {
		return nil, err
	}
	if d.EventsSupported, err = r.ReadU16Array(); err != nil {
		return nil, err
	}
	if d.DevicePropertiesSupported, err = r.ReadU16Array(); err != nil {
		return nil, err
	}
	if d.CaptureFormats, err = r.ReadU16Array(); err != nil {
		return nil, err
	}
	if d.ImageFormats, err = r.ReadU16Array(); err != nil {
		return nil, err
	}
	if d.Manufacturer, err = r.ReadPTPString(); err != nil {
		return nil, err
	}
	if d.Model, err = r.ReadPTPString(); err != nil {
		return nil, err
	}
	if d.DeviceVersion, err = r.ReadPTPString(); err != nil {
		return nil, err
	}
	if d.SerialNumber, err = r.ReadPTPString(); err != nil {
		return nil, err
	}

	return &d, nil
}
