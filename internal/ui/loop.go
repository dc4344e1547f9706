package ui

import (
	"image"
	"image/color"
	"time"

	"camshot/internal/display"
	"camshot/internal/log"
)

var (
	colorBlack  = color.RGBA{A: 255}
	colorStatus = color.RGBA{R: 200, A: 255}
)

// idleInterval paces the loop on static screens so polling doesn't spin
const idleInterval = 10 * time.Millisecond

// Run executes the dispatch loop until the quit screen is confirmed or the
// backend reports an emergency quit. Settings are persisted on the way out.
func (a *App) Run() error {
	width, height := a.backend.Size()
	if width <= 0 || height <= 0 {
		width, height = a.layout.width, a.layout.height
	}
	a.surface = display.NewSurface(width, height)

	// Loading splash while the first preview frame comes up
	a.surface.Fill(colorBlack)
	a.surface.BlitContain(a.surface.Bounds(), a.icons.Get(IconWorking), false)
	if err := a.present(); err != nil {
		log.Debugf("splash present: %v", err)
	}
	log.WithFields(log.F("mode", a.current)).Debug("dispatch loop started")

	for !a.quitting {
		for _, ev := range a.backend.Poll() {
			a.dispatch(ev)
			if a.quitting {
				break
			}
		}
		if a.quitting {
			break
		}
		if err := a.redraw(); err != nil {
			a.flagError("presenting frame", err)
		}
		a.prior = a.current
		if !a.modes[a.current].Live {
			time.Sleep(idleInterval)
		}
	}

	a.saveSettings()
	a.Close()
	return nil
}

// dispatch routes one input event. Taps go to the first widget of the
// current mode that claims the position. Keys fire the current mode's
// binding and then, independently, any global binding; both run when both
// exist.
func (a *App) dispatch(ev display.Event) {
	info := a.modes[a.current]
	switch e := ev.(type) {
	case display.TapEvent:
		for _, w := range info.Widgets {
			if w.HitTest(e.Pos) {
				break
			}
		}
	case display.KeyEvent:
		if action, ok := info.Keys[e.Key]; ok {
			action()
		}
		a.globalKey(e.Key)
	}
}

// globalKey implements the bindings that work on every screen. The shutter
// key doubles as done: on the viewfinder that is a harmless self-transition
// after the capture binding has already run.
func (a *App) globalKey(k display.Key) {
	switch k {
	case display.KeyDown:
		a.cycleSetting(-1)
	case display.KeyUp:
		a.cycleSetting(1)
	case display.KeyShutter:
		a.done()
	case display.KeyEmergencyQuit:
		log.Warnf("emergency quit requested")
		a.quitConfirm()
	}
}

// redraw composes and presents the current screen. Live modes repaint every
// pass from the preview stream; static modes repaint only after a mode
// change or when the prior-mode tracker holds the refresh sentinel.
func (a *App) redraw() error {
	info := a.modes[a.current]
	if info.Live {
		frame, err := a.cam.PreviewFrame()
		if err != nil {
			a.flagError("reading preview", err)
		} else {
			a.surface.BlitCover(a.surface.Bounds(), a.rotated(frame), true)
		}
	} else {
		if a.current == a.prior {
			return nil
		}
		a.surface.Fill(colorBlack)
		if (a.current == ModeView || a.current == ModeDelete) && a.resident != nil {
			a.surface.BlitContain(a.surface.Bounds(), a.rotated(a.resident), true)
		}
	}

	for _, w := range info.Widgets {
		w.Draw(a.surface, a.icons)
	}
	if time.Now().Before(a.statusUntil) {
		b := a.surface.Bounds()
		a.surface.FillRect(image.Rect(b.Min.X, b.Max.Y-4, b.Max.X, b.Max.Y), colorStatus)
	}
	return a.present()
}

// rotated orients an image for the configured display rotation
func (a *App) rotated(img image.Image) image.Image {
	return display.Rotate(img, a.cfg.Display.Rotation)
}

func (a *App) present() error {
	return a.backend.Present(a.surface.RGBA())
}
