package ui

import (
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camshot/internal/camera"
	"camshot/internal/config"
	"camshot/internal/display"
)

func newTestApp(t *testing.T) (*App, *camera.Fake, *display.Memory) {
	t.Helper()
	cfg := config.New()
	cfg.Storage.Dirs = []string{t.TempDir(), t.TempDir(), t.TempDir()}
	cfg.Display.Rotation = 0

	cam := camera.NewFake()
	require.NoError(t, cam.Configure(camera.SizeProfiles[cfg.Settings.Size]))
	require.NoError(t, cam.Start())

	backend := display.NewMemory(320, 240)
	a := New(cfg, filepath.Join(t.TempDir(), "config.yaml"), cam, backend, NewIconSet())
	a.surface = display.NewSurface(320, 240)
	t.Cleanup(a.Close)
	return a, cam, backend
}

func TestCycleReturnsAfterFullCircle(t *testing.T) {
	a, _, _ := newTestApp(t)
	require.Equal(t, ModeViewfinder, a.Mode())

	seen := []Mode{}
	for i := 0; i < len(cyclableModes); i++ {
		a.cycleSetting(1)
		seen = append(seen, a.Mode())
	}
	assert.Equal(t, ModeViewfinder, a.Mode())
	assert.Contains(t, seen, ModeSettingsEV)
	assert.Contains(t, seen, ModeQuit)
}

func TestCycleForwardThenBackIsIdentity(t *testing.T) {
	a, _, _ := newTestApp(t)
	for _, start := range cyclableModes {
		a.current = start
		a.cycleSetting(1)
		a.cycleSetting(-1)
		assert.Equal(t, start, a.Mode())
	}
}

func TestCycleOutsideSubsetIsNoOp(t *testing.T) {
	a, _, _ := newTestApp(t)
	for _, m := range []Mode{ModeDelete, ModeNoImage, ModeSettingsStorage, ModeSettingsEffect} {
		a.current = m
		a.cycleSetting(1)
		assert.Equal(t, m, a.Mode())
		a.cycleSetting(-1)
		assert.Equal(t, m, a.Mode())
	}
}

func TestTapGoesToFirstRegisteredWidget(t *testing.T) {
	a, _, _ := newTestApp(t)

	var hits []string
	info := &ModeInfo{
		Widgets: []*Widget{
			{Rect: image.Rect(0, 0, 100, 100), OnTap: func() { hits = append(hits, "first") }},
			{Rect: image.Rect(50, 50, 200, 200), OnTap: func() { hits = append(hits, "second") }},
		},
		Keys: map[display.Key]Action{},
	}
	a.modes[ModeViewfinder] = info
	a.current = ModeViewfinder

	// In the overlap both widgets contain the point; only the first fires
	a.dispatch(display.TapEvent{Pos: image.Pt(75, 75)})
	assert.Equal(t, []string{"first"}, hits)

	a.dispatch(display.TapEvent{Pos: image.Pt(150, 150)})
	assert.Equal(t, []string{"first", "second"}, hits)

	// Edges are inclusive
	a.dispatch(display.TapEvent{Pos: image.Pt(0, 0)})
	assert.Equal(t, []string{"first", "second", "first"}, hits)
}

func TestPassiveWidgetShieldsWidgetsBelow(t *testing.T) {
	a, _, _ := newTestApp(t)

	fired := false
	a.modes[ModeViewfinder] = &ModeInfo{
		Widgets: []*Widget{
			{Rect: image.Rect(0, 0, 100, 100)}, // passive, no action
			{Rect: image.Rect(0, 0, 100, 100), OnTap: func() { fired = true }},
		},
		Keys: map[display.Key]Action{},
	}
	a.current = ModeViewfinder
	a.dispatch(display.TapEvent{Pos: image.Pt(10, 10)})
	assert.False(t, fired)
}

func TestGlobalKeysFireOnEveryScreen(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.current = ModeSettingsISO
	a.dispatch(display.KeyEvent{Key: display.KeyUp})
	assert.Equal(t, ModeSettingsSize, a.Mode())

	a.dispatch(display.KeyEvent{Key: display.KeyDown})
	assert.Equal(t, ModeSettingsISO, a.Mode())

	a.dispatch(display.KeyEvent{Key: display.KeyEmergencyQuit})
	assert.True(t, a.quitting)
}

func TestModeKeyAndGlobalKeyBothFire(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.current = ModeSettingsISO
	before := a.isoMode

	// Right is an ISO adjustment on this screen and not a global binding
	a.dispatch(display.KeyEvent{Key: display.KeyRight})
	assert.Equal(t, (before+1)%len(camera.ISOTable), a.isoMode)
	assert.Equal(t, ModeSettingsISO, a.Mode())
}

func TestCaptureStoresSequentially(t *testing.T) {
	a, cam, _ := newTestApp(t)

	a.capture()
	assert.Equal(t, 1, cam.Captures)
	assert.Equal(t, 1, a.LoadCursor())
	assert.True(t, a.activeStore().Exists(1))

	a.capture()
	assert.Equal(t, 2, a.LoadCursor())
	assert.True(t, a.activeStore().Exists(2))
}

func TestCaptureFailureLeavesCursorUnchanged(t *testing.T) {
	a, cam, _ := newTestApp(t)
	cam.FailCapture = true

	a.capture()
	assert.Equal(t, noImage, a.LoadCursor())
	assert.Nil(t, a.resident)
	assert.False(t, a.activeStore().Exists(1))
}

func TestDeleteLastImageShowsEmptyScreen(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.capture()
	a.current = ModeDelete
	a.deleteConfirm(true)

	assert.Equal(t, ModeNoImage, a.Mode())
	assert.Equal(t, noImage, a.LoadCursor())
	assert.Nil(t, a.resident)
	assert.False(t, a.activeStore().Exists(1))
}

func TestDeleteDeclinedKeepsImage(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.capture()
	a.current = ModeDelete
	a.deleteConfirm(false)

	assert.Equal(t, ModeView, a.Mode())
	assert.Equal(t, 1, a.LoadCursor())
	assert.True(t, a.activeStore().Exists(1))
}

func TestDeleteMiddleImageShowsNeighbor(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.capture()
	a.capture()
	a.capture()
	require.Equal(t, 3, a.LoadCursor())

	a.imageNav(-1)
	require.Equal(t, 2, a.LoadCursor())

	a.current = ModeDelete
	a.deleteConfirm(true)
	assert.Equal(t, ModeView, a.Mode())
	assert.Equal(t, 1, a.LoadCursor())
}

func TestImageNavWrapsThroughSequenceSpace(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.capture()
	a.capture()
	require.Equal(t, 2, a.LoadCursor())

	a.imageNav(1) // wraps past the highest back to the lowest
	assert.Equal(t, 1, a.LoadCursor())
	a.imageNav(-1)
	assert.Equal(t, 2, a.LoadCursor())
}

func TestPlaybackWithEmptyGalleryShowsNoImage(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.viewTap(1)
	assert.Equal(t, ModeNoImage, a.Mode())
}

func TestGearReturnsToLastSettingsScreen(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.current = ModeSettingsEV
	a.done()
	assert.Equal(t, ModeViewfinder, a.Mode())

	a.viewTap(0)
	assert.Equal(t, ModeSettingsEV, a.Mode())
}

func TestDonePersistsSettings(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.current = ModeSettingsISO
	a.adjustISO(2)
	a.done()

	loaded, err := config.LoadFile(a.configPath)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Settings.ISO)
	assert.Equal(t, a.cfg.Settings, loaded.Settings)
}

func TestISOControlGlue(t *testing.T) {
	a, cam, _ := newTestApp(t)

	a.setISO(1) // ISO 100
	assert.InDelta(t, 2.0, cam.Controls[camera.ControlAnalogueGain], 0.001)
	assert.Equal(t, 0.0, cam.Controls[camera.ControlAutoExposure])

	a.setISO(0) // auto
	assert.Equal(t, 1.0, cam.Controls[camera.ControlAutoExposure])
}

func TestEVControlGlue(t *testing.T) {
	a, cam, _ := newTestApp(t)

	a.setEV(evDefault + 4) // EV +4 in half stops
	assert.InDelta(t, 2.0, cam.Controls[camera.ControlExposureValue], 0.001)
	assert.Equal(t, 1.0, cam.Controls[camera.ControlAutoExposure])
}

func TestRejectedControlLeavesSettingUnchanged(t *testing.T) {
	a, cam, _ := newTestApp(t)
	before := a.isoMode
	cam.RejectControls[camera.ControlAnalogueGain] = true

	a.setISO(3)
	assert.Equal(t, before, a.isoMode)
}

func TestSizeChangeRestartsStreamAndResetsZoom(t *testing.T) {
	a, cam, _ := newTestApp(t)

	a.toggleZoom()
	require.True(t, a.zoomed)

	a.setSize(1)
	assert.Equal(t, camera.SizeProfiles[1], cam.Profile())
	assert.True(t, cam.Running())
	assert.False(t, a.zoomed)
}

func TestZoomToggleAppliesCenteredCrop(t *testing.T) {
	a, cam, _ := newTestApp(t)
	full, err := cam.CropBounds()
	require.NoError(t, err)

	a.toggleZoom()
	crop := cam.Crop
	assert.True(t, crop.In(full.Inset(-1)) || crop.Overlaps(full))
	assert.Less(t, crop.Dx(), full.Dx())

	a.toggleZoom()
	assert.Equal(t, full, cam.Crop)
}

func TestStoreRadioWithoutConfiguredDirIsIgnored(t *testing.T) {
	cfg := config.New()
	cfg.Storage.Dirs = []string{t.TempDir()}

	cam := camera.NewFake()
	a := New(cfg, filepath.Join(t.TempDir(), "config.yaml"), cam, display.NewMemory(320, 240), NewIconSet())
	t.Cleanup(a.Close)
	a.surface = display.NewSurface(320, 240)

	// Radios two and three exist on screen but have no directory behind
	// them; tapping them must not switch (or crash)
	a.setStore(1)
	a.setStore(2)
	assert.Equal(t, 0, a.storeMode)
	assert.Equal(t, IconRadioOn, a.controls.storeRadios[0].Bg)
	assert.Equal(t, IconRadioOff, a.controls.storeRadios[1].Bg)

	a.capture()
	assert.True(t, a.stores[0].Exists(1))
}

func TestSettingsScreenCountMatchesConfig(t *testing.T) {
	assert.Equal(t, config.SettingsScreenCount, len(settingsScreens))
}

func TestStoreSwitchInvalidatesSaveCursor(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.capture()
	a.setStore(1)
	assert.Equal(t, IconRadioOn, a.controls.storeRadios[1].Bg)
	assert.Equal(t, IconRadioOff, a.controls.storeRadios[0].Bg)

	// The second destination is empty, so captures restart at 1 there
	a.capture()
	assert.Equal(t, 1, a.LoadCursor())
	assert.True(t, a.stores[1].Exists(1))
	assert.False(t, a.stores[1].Exists(2))
}

func TestSpinnerRestoresSlotsAndForcesRedraw(t *testing.T) {
	a, _, backend := newTestApp(t)
	a.current = ModeViewfinder
	a.prior = ModeViewfinder
	info := a.modes[ModeViewfinder]

	a.withSpinner(func() {
		time.Sleep(2 * spinnerInterval)
	})

	assert.Equal(t, IconNone, info.SpinnerLabel.Bg)
	assert.Equal(t, IconNone, info.SpinnerAnim.Bg)
	assert.Equal(t, ModeRefresh, a.prior)
	assert.GreaterOrEqual(t, backend.Presents(), 2)
}

func TestSpinnerBeforeSurfaceRunsInline(t *testing.T) {
	cfg := config.New()
	cfg.Storage.Dirs = []string{t.TempDir(), t.TempDir(), t.TempDir()}
	a := New(cfg, filepath.Join(t.TempDir(), "config.yaml"), camera.NewFake(), display.NewMemory(320, 240), NewIconSet())
	t.Cleanup(a.Close)
	require.Nil(t, a.surface)
	a.prior = ModeViewfinder

	ran := false
	a.withSpinner(func() { ran = true })

	assert.True(t, ran)
	assert.Equal(t, ModeViewfinder, a.prior)
	assert.Equal(t, IconNone, a.modes[ModeViewfinder].SpinnerLabel.Bg)
	assert.Equal(t, IconNone, a.modes[ModeViewfinder].SpinnerAnim.Bg)
}

func TestSpinnerReentrantCallRunsInline(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.current = ModeView

	ran := false
	a.withSpinner(func() {
		a.withSpinner(func() { ran = true })
	})
	assert.True(t, ran)
	assert.Equal(t, IconNone, a.modes[ModeView].SpinnerLabel.Bg)
}

func TestQuitConfirmPersistsAndStops(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.adjustEV(1)

	a.current = ModeQuit
	a.dispatch(display.KeyEvent{Key: display.KeySelect})
	assert.True(t, a.quitting)

	loaded, err := config.LoadFile(a.configPath)
	require.NoError(t, err)
	assert.Equal(t, evDefault+1, loaded.Settings.EV)
}

func TestSettingsReplayOnStartup(t *testing.T) {
	cfg := config.New()
	cfg.Storage.Dirs = []string{t.TempDir(), t.TempDir(), t.TempDir()}
	cfg.Settings.ISO = 2
	cfg.Settings.Size = 1
	cfg.Settings.EV = evDefault + 2
	cfg.Settings.SettingsScreen = 4 // EV screen

	cam := camera.NewFake()
	a := New(cfg, filepath.Join(t.TempDir(), "config.yaml"), cam, display.NewMemory(320, 240), NewIconSet())
	t.Cleanup(a.Close)

	assert.Equal(t, 2, a.isoMode)
	assert.Equal(t, 1, a.sizeMode)
	assert.Equal(t, evDefault+2, a.evMode)
	assert.Equal(t, ModeSettingsEV, a.settingsScreen)
	assert.Equal(t, IconRadioOn, a.controls.sizeRadios[1].Bg)
	assert.InDelta(t, camera.GainForISO(200), cam.Controls[camera.ControlAnalogueGain], 0.001)
}
