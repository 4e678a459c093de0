package analysis

import "skinscan/capture"

// ErrImageDecode is returned when the image cannot be decoded or has no
// pixels. No result is produced in that case.
var ErrImageDecode = capture.ErrImageDecode
