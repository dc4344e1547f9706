//go:build !gocv
// +build !gocv

package camera

import (
	"camshot/internal/errs"
)

// Open is a stub for builds without camera hardware support
func Open(index int) (Camera, error) {
	return nil, errs.NewCameraError(
		"built without camera support (rebuild with -tags gocv)", "",
		errs.CameraConfigFailed, nil)
}
