package ui

import (
	"time"

	"camshot/internal/log"
)

// spinnerFrames is the number of animation frames in the busy cycle
const spinnerFrames = 5

// spinnerInterval is the delay between animation frames
const spinnerInterval = 150 * time.Millisecond

// withSpinner runs fn while a background goroutine animates the busy
// indicator in the current mode's reserved widget slots. It blocks until
// both fn and the animator have finished and the slots are restored, so
// the caller never observes a half-drawn indicator. Before the surface
// exists there is nothing to animate on and fn runs inline, as do
// reentrant calls.
func (a *App) withSpinner(fn func()) {
	if a.surface == nil || !a.busy.CompareAndSwap(false, true) {
		fn()
		return
	}
	info := a.modes[a.current]
	if info != nil && info.SpinnerLabel != nil {
		a.spinnerWG.Add(1)
		go a.spin(info)
	}
	fn()
	a.busy.Store(false)
	a.spinnerWG.Wait()
}

// spin paints the busy label once, then cycles the animation frames until
// the busy flag drops. On exit both slots are cleared and the prior-mode
// tracker is poisoned so the next loop pass repaints the screen under the
// indicator.
func (a *App) spin(info *ModeInfo) {
	defer a.spinnerWG.Done()

	info.SpinnerLabel.Bg = IconWorking
	info.SpinnerLabel.Draw(a.surface, a.icons)
	a.present()

	frame := 0
	for a.busy.Load() {
		info.SpinnerAnim.Bg = SpinnerFrame(frame)
		info.SpinnerAnim.Draw(a.surface, a.icons)
		a.present()
		frame++
		time.Sleep(spinnerInterval)
	}

	info.SpinnerLabel.Bg = IconNone
	info.SpinnerAnim.Bg = IconNone
	a.prior = ModeRefresh
	log.Debugf("busy indicator cleared after %d frames", frame)
}
