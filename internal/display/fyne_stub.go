//go:build !gui
// +build !gui

package display

import (
	"image"

	"camshot/internal/errs"
)

// Window is a stub for builds with the desktop window disabled
type Window struct{}

var errNoGUI = errs.New("built without window support (rebuild with -tags gui)")

// NewWindow reports at Run time that the window backend is unavailable
func NewWindow(width, height int) *Window {
	return &Window{}
}

func (w *Window) Run()                            {}
func (w *Window) Quit()                           {}
func (w *Window) Size() (int, int)                { return 0, 0 }
func (w *Window) Poll() []Event                   { return nil }
func (w *Window) Present(frame *image.RGBA) error { return errNoGUI }
func (w *Window) Close() error                    { return nil }

// Available reports whether the window backend is compiled in
func Available() bool {
	return false
}
