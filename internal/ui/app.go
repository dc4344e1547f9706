package ui

import (
	"image"
	"sync"
	"sync/atomic"
	"time"

	"camshot/internal/camera"
	"camshot/internal/config"
	"camshot/internal/display"
	"camshot/internal/log"
	"camshot/internal/store"
)

// evDefault is the EV table index for compensation 0
const evDefault = 8

// noImage marks an unset image cursor
const noImage = -1

// App owns all mutable UI state. Callbacks are methods so every state
// change flows through one place; nothing in this package is package-level
// mutable.
type App struct {
	cfg        *config.Config
	configPath string
	cam        camera.Camera
	backend    display.Backend
	icons      *IconSet
	surface    *display.Surface
	stores     []*store.Store

	modes    ModeTable
	controls *controls
	layout   layout

	current Mode
	prior   Mode
	// settingsScreen is the last-used settings screen the gear button
	// returns to
	settingsScreen Mode

	// setting indices into the fixed lookup tables
	fxMode   int
	isoMode  int
	sizeMode int
	evMode   int
	// storeMode selects the active storage destination
	storeMode int
	zoomed    bool

	// resident is the last captured or loaded image, kept in memory for
	// instant playback; loadIdx is its sequence number
	resident image.Image
	loadIdx  int

	busy      atomic.Bool
	spinnerWG sync.WaitGroup

	// statusUntil keeps the on-screen error strip visible after a failure
	statusUntil time.Time

	quitting bool
}

// New builds the application around its collaborators. The persisted
// settings are replayed through the regular setters so icons, indicator
// positions, and camera controls all match.
func New(cfg *config.Config, configPath string, cam camera.Camera, backend display.Backend, icons *IconSet) *App {
	width, height := backend.Size()
	if width <= 0 || height <= 0 {
		width, height = cfg.Display.Width, cfg.Display.Height
	}
	a := &App{
		cfg:        cfg,
		configPath: configPath,
		cam:        cam,
		backend:    backend,
		icons:      icons,
		current:    ModeViewfinder,
		prior:      ModeRefresh,
		loadIdx:    noImage,
		evMode:     evDefault,
		layout:     layout{width: width, height: height},
	}
	a.modes, a.controls = a.buildModes(a.layout)

	a.stores = make([]*store.Store, len(cfg.Storage.Dirs))
	for i, dir := range cfg.Storage.Dirs {
		a.stores[i] = store.New(dir)
	}

	a.settingsScreen = settingsScreens[0]
	a.applySettings(cfg.Settings)
	return a
}

// Mode returns the current screen mode
func (a *App) Mode() Mode {
	return a.current
}

// LoadCursor returns the sequence number of the image shown in playback,
// or -1 when none is loaded
func (a *App) LoadCursor() int {
	return a.loadIdx
}

// activeStore returns the store for the selected destination
func (a *App) activeStore() *store.Store {
	return a.stores[a.storeMode]
}

// applySettings replays a persisted settings record through the setters
func (a *App) applySettings(s config.Settings) {
	a.setEffect(s.Effect)
	a.setISO(s.ISO)
	a.setSizeWidgets(s.Size)
	a.setStore(s.Store)
	a.setEV(s.EV)
	if s.SettingsScreen >= 0 && s.SettingsScreen < len(settingsScreens) {
		a.settingsScreen = settingsScreens[s.SettingsScreen]
	}
}

// saveSettings persists the current selections. Best effort; a failure is
// logged and the app keeps running.
func (a *App) saveSettings() {
	a.cfg.Settings.Effect = a.fxMode
	a.cfg.Settings.ISO = a.isoMode
	a.cfg.Settings.Size = a.sizeMode
	a.cfg.Settings.Store = a.storeMode
	a.cfg.Settings.EV = a.evMode
	for i, m := range settingsScreens {
		if m == a.settingsScreen {
			a.cfg.Settings.SettingsScreen = i
		}
	}
	if err := a.cfg.Save(a.configPath); err != nil {
		log.Error("saving settings", err)
	}
}

// flagError logs a failure and arms the on-screen status strip
func (a *App) flagError(context string, err error) {
	log.Error(context, err)
	a.statusUntil = time.Now().Add(3 * time.Second)
}

// cycleSetting steps through the cyclable mode subset. Outside the subset
// the call is a silent no-op.
func (a *App) cycleSetting(step int) {
	position := -1
	for i, m := range cyclableModes {
		if m == a.current {
			position = i
			break
		}
	}
	if position < 0 {
		return
	}
	n := len(cyclableModes)
	a.current = cyclableModes[((position+step)%n+n)%n]
}

// viewTap handles the three viewfinder zones: 0 = settings gear,
// 1 = playback, anything else = shutter.
func (a *App) viewTap(zone int) {
	switch zone {
	case 0:
		a.current = a.settingsScreen
	case 1:
		if a.resident != nil {
			a.current = ModeView
			a.prior = ModeRefresh
			return
		}
		if _, max, ok := a.activeStore().Range(); ok {
			a.showImage(max)
		} else {
			a.current = ModeNoImage
		}
	default:
		a.capture()
	}
}

// done exits a settings screen back to the viewfinder, remembering which
// settings screen was in use.
func (a *App) done() {
	if a.modes[a.current].Settings {
		a.settingsScreen = a.current
		a.saveSettings()
	}
	a.current = ModeViewfinder
}

// quitConfirm persists settings and ends the dispatch loop
func (a *App) quitConfirm() {
	a.saveSettings()
	a.quitting = true
}

// imageNav moves through the gallery: +1/-1 step to the neighboring image,
// 0 asks for delete confirmation.
func (a *App) imageNav(direction int) {
	if direction == 0 {
		a.current = ModeDelete
		return
	}
	a.showNeighbor(direction)
}

// deleteConfirm deletes the loaded image on yes. Returning to the delete
// screen before the surface exists is a no-op.
func (a *App) deleteConfirm(yes bool) {
	if a.surface == nil {
		return
	}
	a.current = ModeView
	a.prior = ModeRefresh
	if !yes || a.loadIdx == noImage {
		return
	}
	st := a.activeStore()
	if err := st.Delete(a.loadIdx); err != nil {
		a.flagError("deleting image", err)
		return
	}
	if _, _, ok := st.Range(); ok {
		a.surface.Fill(colorBlack)
		a.present()
		a.showNeighbor(-1)
	} else {
		a.current = ModeNoImage
		a.resident = nil
		a.loadIdx = noImage
	}
}

// showNeighbor finds and loads the nearest existing image in the given
// direction, behind the busy indicator. When the full-circle scan finds
// nothing the mode is left unchanged.
func (a *App) showNeighbor(direction int) {
	var (
		n  int
		ok bool
	)
	a.withSpinner(func() {
		n, ok = a.activeStore().Neighbor(a.loadIdx, direction)
	})
	if !ok {
		log.Warnf("no neighboring image in %s", a.activeStore().Dir())
		return
	}
	a.showImage(n)
}

// showImage loads an image from the active store into memory and switches
// to playback.
func (a *App) showImage(n int) {
	var (
		img image.Image
		err error
	)
	a.withSpinner(func() {
		img, err = a.activeStore().Load(n)
	})
	if err != nil {
		a.flagError("loading image", err)
		return
	}
	a.resident = img
	a.loadIdx = n
	a.current = ModeView
	a.prior = ModeRefresh
}

// capture takes a still photograph into the next free slot of the active
// storage destination. Failure to prepare the directory aborts the capture
// with the mode unchanged.
func (a *App) capture() {
	st := a.activeStore()
	if err := st.EnsureDir(); err != nil {
		a.flagError("preparing storage", err)
		return
	}
	if err := st.Watch(); err != nil {
		log.Debugf("storage watch: %v", err)
	}
	slot, err := st.NextFreeSlot()
	if err != nil {
		a.flagError("finding free slot", err)
		return
	}
	path := st.ImagePath(slot)

	a.resident = nil
	var img image.Image
	a.withSpinner(func() {
		img, err = a.cam.CaptureStill(path)
	})
	if err != nil {
		a.flagError("capturing still", err)
		return
	}
	store.FixOwnership(path)
	a.resident = img
	a.loadIdx = slot
	st.Advance(slot)
	log.WithFields(log.F("path", path)).Info("captured image")
}

// setEffect selects a stylistic effect. The selection is stored and shown;
// the driver hook is not wired up.
func (a *App) setEffect(n int) {
	a.fxMode = n
	a.controls.fxLabel.Bg = EffectLabel(n)
}

func (a *App) adjustEffect(step int) {
	n := len(camera.Effects)
	a.setEffect(((a.fxMode+step)%n + n) % n)
}

// setISO applies an ISO selection to the sensor. Index 0 hands exposure
// back to the auto algorithm. A rejected control leaves the setting state
// untouched.
func (a *App) setISO(n int) {
	setting := camera.ISOTable[n]
	if setting.Value > 0 {
		if err := a.cam.SetControl(camera.ControlAnalogueGain, camera.GainForISO(setting.Value)); err != nil {
			a.flagError("setting ISO", err)
			return
		}
	}
	auto := 0.0
	if n == 0 {
		auto = 1.0
	}
	if err := a.cam.SetControl(camera.ControlAutoExposure, auto); err != nil {
		a.flagError("setting auto exposure", err)
		return
	}
	a.isoMode = n
	a.controls.isoLabel.Bg = ISOLabel(n)
	a.layout.moveMarker(a.controls.isoArrow, setting.MarkerX)
}

func (a *App) adjustISO(step int) {
	n := len(camera.ISOTable)
	a.setISO(((a.isoMode+step)%n + n) % n)
}

// setEV applies exposure compensation. Only effective with auto exposure
// on, so that control is forced on with it.
func (a *App) setEV(n int) {
	setting := camera.EVTable[n]
	if err := a.cam.SetControl(camera.ControlExposureValue, camera.ExposureForEV(setting.Value)); err != nil {
		a.flagError("setting EV", err)
		return
	}
	if err := a.cam.SetControl(camera.ControlAutoExposure, 1.0); err != nil {
		a.flagError("setting auto exposure", err)
		return
	}
	a.evMode = n
	a.controls.evLabel.Bg = EVLabel(n)
	a.layout.moveMarker(a.controls.evArrow, setting.MarkerX)
}

func (a *App) adjustEV(step int) {
	n := len(camera.EVTable)
	a.setEV(((a.evMode+step)%n + n) % n)
}

// setSizeWidgets updates the radio icons and the stored index without
// touching the camera; used when replaying persisted settings before the
// stream is reconfigured in one go.
func (a *App) setSizeWidgets(n int) {
	a.controls.sizeRadios[a.sizeMode].Bg = IconRadioOff
	a.sizeMode = n
	a.controls.sizeRadios[a.sizeMode].Bg = IconRadioOn
}

// setSize reconfigures the still profile, which requires a stream restart
// and resets digital zoom.
func (a *App) setSize(n int) {
	a.setSizeWidgets(n)
	profile := camera.SizeProfiles[n]
	if err := a.cam.Stop(); err != nil {
		a.flagError("stopping stream", err)
	}
	if err := a.cam.Configure(profile); err != nil {
		a.flagError("configuring camera", err)
	}
	if err := a.cam.Start(); err != nil {
		a.flagError("starting stream", err)
	}
	a.zoomed = false
	a.applyZoom()
}

func (a *App) adjustSize(step int) {
	n := len(camera.SizeProfiles)
	a.setSize(((a.sizeMode+step)%n + n) % n)
}

// setStore selects the storage destination radio. The screen always shows
// three radios but the configuration may carry fewer directories; a radio
// without one is ignored. The target store's save cursor is invalidated so
// the next capture rescans the directory.
func (a *App) setStore(n int) {
	if n < 0 || n >= len(a.stores) {
		log.Warnf("storage destination %d has no configured directory", n)
		return
	}
	a.controls.storeRadios[a.storeMode].Bg = IconRadioOff
	a.storeMode = n
	a.controls.storeRadios[a.storeMode].Bg = IconRadioOn
	a.activeStore().Invalidate()
}

// toggleZoom flips between the full sensor and an extreme center crop used
// as a focus aid, not intended for taking photos.
func (a *App) toggleZoom() {
	a.zoomed = !a.zoomed
	a.applyZoom()
}

func (a *App) applyZoom() {
	bounds, err := a.cam.CropBounds()
	if err != nil {
		a.flagError("reading crop bounds", err)
		return
	}
	if !a.zoomed {
		if err := a.cam.SetCrop(bounds); err != nil {
			a.flagError("resetting zoom", err)
		}
		return
	}
	const zoomFactor = 4
	w := a.layout.width * zoomFactor
	h := a.layout.height * zoomFactor
	crop := image.Rect(0, 0, w, h).Add(image.Pt(
		bounds.Min.X+(bounds.Dx()-w)/2,
		bounds.Min.Y+(bounds.Dy()-h)/2,
	))
	if err := a.cam.SetCrop(crop); err != nil {
		a.flagError("applying zoom", err)
	}
}

// Close releases the stores' watchers
func (a *App) Close() {
	for _, st := range a.stores {
		if err := st.Close(); err != nil {
			log.Debugf("closing store: %v", err)
		}
	}
}
