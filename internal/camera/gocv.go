//go:build gocv
// +build gocv

package camera

import (
	"image"

	"gocv.io/x/gocv"

	"camshot/internal/errs"
	"camshot/internal/log"
)

// device drives a real camera through OpenCV's capture API. Digital zoom is
// emulated by cropping captured frames, since V4L2 exposes no scaler-crop
// control through this API.
type device struct {
	capture *gocv.VideoCapture
	index   int
	profile SizeProfile
	crop    image.Rectangle
	bounds  image.Rectangle
}

// Open opens the camera at the given device index
func Open(index int) (Camera, error) {
	capture, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, errs.NewCameraError("opening capture device", "", errs.CameraConfigFailed, err)
	}
	d := &device{
		capture: capture,
		index:   index,
		profile: SizeProfiles[0],
	}
	d.bounds = image.Rect(0, 0, d.profile.Still.Width, d.profile.Still.Height)
	d.crop = d.bounds
	return d, nil
}

func (d *device) Configure(profile SizeProfile) error {
	d.capture.Set(gocv.VideoCaptureFrameWidth, float64(profile.Still.Width))
	d.capture.Set(gocv.VideoCaptureFrameHeight, float64(profile.Still.Height))
	d.profile = profile
	d.bounds = image.Rect(0, 0, profile.Still.Width, profile.Still.Height)
	d.crop = d.bounds
	log.Debugf("camera configured for %s", profile.Label)
	return nil
}

func (d *device) Start() error {
	// VideoCapture streams as soon as it is open; grab a frame to warm up
	mat := gocv.NewMat()
	defer mat.Close()
	if ok := d.capture.Read(&mat); !ok {
		return errs.NewCameraError("starting stream", "", errs.PreviewFailed, nil)
	}
	return nil
}

func (d *device) Stop() error {
	return nil
}

func (d *device) PreviewFrame() (image.Image, error) {
	mat := gocv.NewMat()
	defer mat.Close()
	if ok := d.capture.Read(&mat); !ok || mat.Empty() {
		return nil, errs.NewCameraError("reading preview frame", "", errs.PreviewFailed, nil)
	}
	img, err := mat.ToImage()
	if err != nil {
		return nil, errs.NewCameraError("converting preview frame", "", errs.PreviewFailed, err)
	}
	return d.applyCrop(img), nil
}

func (d *device) CaptureStill(path string) (image.Image, error) {
	mat := gocv.NewMat()
	defer mat.Close()
	if ok := d.capture.Read(&mat); !ok || mat.Empty() {
		return nil, errs.NewCameraError("capturing still", "", errs.CaptureFailed, nil)
	}
	if ok := gocv.IMWrite(path, mat); !ok {
		return nil, errs.NewStorageError("writing still", path, errs.StorageCreateFailed, nil)
	}
	img, err := mat.ToImage()
	if err != nil {
		return nil, errs.NewCameraError("converting still", "", errs.CaptureFailed, err)
	}
	return img, nil
}

func (d *device) SetControl(name string, value float64) error {
	var prop gocv.VideoCaptureProperties
	switch name {
	case ControlAnalogueGain:
		prop = gocv.VideoCaptureGain
	case ControlAutoExposure:
		prop = gocv.VideoCaptureAutoExposure
	case ControlExposureValue:
		prop = gocv.VideoCaptureExposure
	default:
		return errs.NewCameraError("unknown control", name, errs.ControlRejected, nil)
	}
	d.capture.Set(prop, value)
	return nil
}

func (d *device) CropBounds() (image.Rectangle, error) {
	return d.bounds, nil
}

func (d *device) SetCrop(r image.Rectangle) error {
	if !r.In(d.bounds) {
		return errs.NewCameraError("crop outside sensor bounds", "", errs.ControlRejected, nil)
	}
	d.crop = r
	return nil
}

func (d *device) applyCrop(img image.Image) image.Image {
	if d.crop == d.bounds {
		return img
	}
	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	// Scale the crop window from sensor space into frame space
	fb := img.Bounds()
	sx := float64(fb.Dx()) / float64(d.bounds.Dx())
	sy := float64(fb.Dy()) / float64(d.bounds.Dy())
	r := image.Rect(
		fb.Min.X+int(float64(d.crop.Min.X)*sx),
		fb.Min.Y+int(float64(d.crop.Min.Y)*sy),
		fb.Min.X+int(float64(d.crop.Max.X)*sx),
		fb.Min.Y+int(float64(d.crop.Max.Y)*sy),
	)
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	return img
}

// Close releases the capture device
func (d *device) Close() error {
	return d.capture.Close()
}
