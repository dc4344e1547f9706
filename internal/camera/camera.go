// Package camera defines the narrow interface the application uses to talk
// to the camera hardware, together with the fixed parameter tables for the
// size, ISO, and exposure settings screens.
package camera

import (
	"image"
	"math"
)

// Resolution is a width/height pair in pixels
type Resolution struct {
	Width  int
	Height int
}

// SizeProfile pairs the full-resolution still size with the matching
// viewfinder preview size.
type SizeProfile struct {
	Label   string
	Still   Resolution
	Preview Resolution
}

// SizeProfiles are the selectable size settings, largest first
var SizeProfiles = []SizeProfile{
	{Label: "12 MP", Still: Resolution{4000, 3000}, Preview: Resolution{320, 240}},
	{Label: "8 MP / 4K", Still: Resolution{3840, 2160}, Preview: Resolution{426, 240}},
	{Label: "5 MP", Still: Resolution{2592, 1944}, Preview: Resolution{320, 240}},
}

// ISOSetting holds one selectable ISO value and the X position of the
// indicator arrow on the ISO settings screen (320-wide reference space).
type ISOSetting struct {
	Value   int
	MarkerX int
}

// ISOTable lists the selectable ISO settings. Value 0 means auto exposure.
var ISOTable = []ISOSetting{
	{0, 27}, {100, 64}, {200, 97}, {320, 137},
	{400, 164}, {500, 197}, {640, 244}, {800, 297},
}

// EVSetting holds one selectable exposure-compensation step and the X
// position of the indicator arrow on the EV settings screen.
type EVSetting struct {
	Value   int
	MarkerX int
}

// EVTable lists the selectable EV compensation steps, -8 .. +8. The marker
// positions are evenly spaced across the indicator bar.
var EVTable = buildEVTable()

func buildEVTable() []EVSetting {
	t := make([]EVSetting, 0, 17)
	for ev := -8; ev <= 8; ev++ {
		t = append(t, EVSetting{Value: ev, MarkerX: int(13 + 18.5*float64(ev+8))})
	}
	return t
}

// Effects is the fixed list of stylistic image effects. The underlying
// driver hook is not wired up; the selection is stored and displayed only.
var Effects = []string{
	"none", "sketch", "gpen", "pastel", "watercolor", "oilpaint", "hatch",
	"negative", "colorswap", "posterise", "denoise", "blur", "film",
	"washedout", "emboss", "cartoon", "solarize",
}

// Control names accepted by SetControl
const (
	ControlAnalogueGain  = "AnalogueGain"
	ControlAutoExposure  = "AeEnable"
	ControlExposureValue = "ExposureValue"
)

// GainForISO converts an ISO value to the analogue gain the sensor expects
func GainForISO(iso int) float64 {
	return math.Log2(float64(iso) / 25)
}

// ExposureForEV converts an EV compensation step to the control value
func ExposureForEV(ev int) float64 {
	return float64(ev) / 2.0
}

// Camera is the collaborator interface for the sensor. Implementations are
// expected to be used from a single goroutine; calls block until the
// hardware has acted.
type Camera interface {
	// Configure applies a size profile. The stream must be restarted
	// afterwards for the profile to take effect.
	Configure(profile SizeProfile) error
	Start() error
	Stop() error

	// PreviewFrame returns one fresh viewfinder frame, already converted
	// to RGB color space.
	PreviewFrame() (image.Image, error)

	// CaptureStill captures a full-resolution still to path and returns
	// the captured frame so it can stay memory-resident for playback.
	CaptureStill(path string) (image.Image, error)

	// SetControl sets a scalar sensor control (gain, exposure). A value
	// the sensor rejects returns an error and leaves the control as-is.
	SetControl(name string, value float64) error

	// CropBounds reports the maximum scaler-crop window of the sensor
	CropBounds() (image.Rectangle, error)

	// SetCrop applies a digital-zoom crop window within CropBounds
	SetCrop(r image.Rectangle) error

	// Close releases the underlying device
	Close() error
}
