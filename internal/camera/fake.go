package camera

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"sync"

	"camshot/internal/errs"
)

// Fake is an in-memory camera used by tests and by the terminal simulator.
// It renders a moving test pattern for preview frames and records every
// control write so tests can assert on the glue logic.
type Fake struct {
	mu sync.Mutex

	profile  SizeProfile
	running  bool
	frameNum int

	// Controls holds the last value written per control name
	Controls map[string]float64
	// Crop is the last crop window applied
	Crop image.Rectangle
	// Captures counts CaptureStill calls
	Captures int

	// RejectControls makes SetControl fail for the named controls
	RejectControls map[string]bool
	// FailCapture makes CaptureStill fail without writing a file
	FailCapture bool
}

// NewFake returns a fake camera configured with the first size profile
func NewFake() *Fake {
	return &Fake{
		profile:        SizeProfiles[0],
		Controls:       map[string]float64{},
		RejectControls: map[string]bool{},
		Crop:           image.Rect(0, 0, 4056, 3040),
	}
}

// Profile reports the currently configured size profile
func (f *Fake) Profile() SizeProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile
}

// Running reports whether the stream is started
func (f *Fake) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *Fake) Configure(profile SizeProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile = profile
	return nil
}

func (f *Fake) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = true
	return nil
}

func (f *Fake) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
	return nil
}

func (f *Fake) PreviewFrame() (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return nil, errs.NewCameraError("preview with stopped stream", "", errs.PreviewFailed, nil)
	}
	f.frameNum++
	return f.testPattern(f.profile.Preview, f.frameNum), nil
}

func (f *Fake) CaptureStill(path string) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailCapture {
		return nil, errs.NewCameraError("capture failed", "", errs.CaptureFailed, nil)
	}
	f.Captures++
	img := f.testPattern(f.profile.Preview, f.frameNum)
	out, err := os.Create(path)
	if err != nil {
		return nil, errs.NewStorageError("creating image file", path, errs.StorageCreateFailed, err)
	}
	defer out.Close()
	if err := jpeg.Encode(out, img, nil); err != nil {
		return nil, errs.Wrap(err, "encoding still")
	}
	return img, nil
}

func (f *Fake) SetControl(name string, value float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RejectControls[name] {
		return errs.NewCameraError("control rejected", name, errs.ControlRejected, nil)
	}
	f.Controls[name] = value
	return nil
}

func (f *Fake) CropBounds() (image.Rectangle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return image.Rect(0, 0, 4056, 3040), nil
}

func (f *Fake) SetCrop(r image.Rectangle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Crop = r
	return nil
}

func (f *Fake) Close() error {
	return f.Stop()
}

// testPattern draws a diagonal gradient that shifts with the frame number,
// so the simulator's preview visibly animates.
func (f *Fake) testPattern(res Resolution, n int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, res.Width, res.Height))
	for y := 0; y < res.Height; y++ {
		for x := 0; x < res.Width; x++ {
			v := uint8((x + y + n*4) & 0xff)
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 0xff})
		}
	}
	return img
}
