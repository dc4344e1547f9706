//go:build gui
// +build gui

package display

import (
	"image"
	stddraw "image/draw"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"camshot/internal/log"
)

// Available reports whether the window backend is compiled in
func Available() bool {
	return true
}

// Window is a desktop backend that stands in for the TFT touchscreen during
// development: the framebuffer is shown in a fyne window, clicks become tap
// events, and arrow/letter keys become key events.
type Window struct {
	fyneApp fyne.App
	win     fyne.Window
	view    *frameView
	width   int
	height  int

	mu      sync.Mutex
	pending []Event
	frame   *image.RGBA
}

// NewWindow creates the desktop window backend
func NewWindow(width, height int) *Window {
	w := &Window{
		fyneApp: app.New(),
		width:   width,
		height:  height,
		frame:   image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	w.win = w.fyneApp.NewWindow("camshot")
	w.view = newFrameView(w)
	w.win.SetContent(w.view)
	w.win.Resize(fyne.NewSize(float32(width), float32(height)))
	w.win.SetFixedSize(true)
	w.win.Canvas().SetOnTypedKey(w.typedKey)
	return w
}

// Run shows the window and blocks until it is closed. The dispatch loop
// must run on another goroutine; call Quit when it exits.
func (w *Window) Run() {
	w.win.ShowAndRun()
}

// Quit closes the window and ends Run
func (w *Window) Quit() {
	w.fyneApp.Quit()
}

func (w *Window) Size() (int, int) {
	return w.width, w.height
}

func (w *Window) Poll() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := w.pending
	w.pending = nil
	return events
}

func (w *Window) Present(frame *image.RGBA) error {
	w.mu.Lock()
	stddraw.Draw(w.frame, w.frame.Bounds(), frame, frame.Bounds().Min, stddraw.Src)
	w.mu.Unlock()
	canvas.Refresh(w.view)
	return nil
}

func (w *Window) Close() error {
	w.Quit()
	return nil
}

func (w *Window) push(ev Event) {
	w.mu.Lock()
	w.pending = append(w.pending, ev)
	w.mu.Unlock()
}

func (w *Window) typedKey(ev *fyne.KeyEvent) {
	var key Key
	switch ev.Name {
	case fyne.KeyLeft:
		key = KeyLeft
	case fyne.KeyRight:
		key = KeyRight
	case fyne.KeyUp:
		key = KeyUp
	case fyne.KeyDown:
		key = KeyDown
	case fyne.KeyReturn, fyne.KeyEnter:
		key = KeySelect
	case fyne.KeyA, fyne.KeySpace:
		key = KeyShutter
	case fyne.KeyZ, fyne.KeyEscape:
		key = KeyEmergencyQuit
	default:
		log.Debugf("unmapped key %q", ev.Name)
		return
	}
	w.push(KeyEvent{Key: key})
}

// frameView renders the framebuffer and converts taps to pixel coordinates
type frameView struct {
	widget.BaseWidget
	backend *Window
	img     *canvas.Image
}

func newFrameView(backend *Window) *frameView {
	v := &frameView{
		backend: backend,
		img:     canvas.NewImageFromImage(backend.frame),
	}
	v.img.FillMode = canvas.ImageFillContain
	v.img.ScaleMode = canvas.ImageScaleFastest
	v.ExtendBaseWidget(v)
	return v
}

func (v *frameView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.img)
}

func (v *frameView) Tapped(ev *fyne.PointEvent) {
	size := v.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	x := int(ev.Position.X / size.Width * float32(v.backend.width))
	y := int(ev.Position.Y / size.Height * float32(v.backend.height))
	v.backend.push(TapEvent{Pos: image.Pt(x, y)})
}
