package camera

import "github.com/ptphost/go-ptp/wire"

// CaptureResult is the outcome of captureImage. Canon's captureImage
// returns an empty CaptureResult by design (§9 Open Question 2): the
// image is retrieved by the caller via the event stream, not the return
// value. Sony populates Info/Data when the capture flow resolves an
// object handle before returning; the generic path sets only
// ObjectHandle.
type CaptureResult struct {
	ObjectHandle uint32
	Info         *wire.ObjectInfo
	Data         []byte
}

// ObjectResult is the outcome of getObject / a vendor large-object read.
type ObjectResult struct {
	Info *wire.ObjectInfo
	Data []byte
}

// LiveViewFrame is the decoded result of captureLiveView.
type LiveViewFrame struct {
	Data []byte
}

// StorageListing is one storage's listObjects result: its StorageInfo
// plus every contained object's ObjectInfo, keyed by object handle.
type StorageListing struct {
	Info    *wire.StorageInfo
	Objects map[uint32]*wire.ObjectInfo
}
