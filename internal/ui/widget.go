package ui

import (
	"image"
	"image/color"

	"camshot/internal/display"
)

// Action is a widget or key binding. Bindings that carry a value capture it
// in the closure, so dispatch is uniform whether or not an argument exists.
type Action func()

// withValue binds a one-argument callback to its value
func withValue(fn func(int), value int) Action {
	return func() { fn(value) }
}

// Widget is a rectangular, optionally painted, optionally tappable screen
// region. Stacking order matters when widgets overlap: the first-registered
// widget wins hit-testing, the last-registered is drawn on top.
type Widget struct {
	Rect  image.Rectangle
	Color color.Color // background fill, nil for none
	Bg    IconID      // background icon, atop the fill
	Fg    IconID      // foreground icon, atop the background
	OnTap Action
}

// HitTest reports whether p lies within the widget, edges inclusive. On a
// hit the action binding, if any, is invoked; passive widgets still consume
// the tap so they can shield widgets below them.
func (w *Widget) HitTest(p image.Point) bool {
	if !p.In(w.Rect) {
		return false
	}
	if w.OnTap != nil {
		w.OnTap()
	}
	return true
}

// Draw paints the fill color, then the background icon, then the foreground
// icon, each centered and contained within the widget rectangle. A widget
// with nothing set is a deliberate no-op, used purely for hit-test layering.
func (w *Widget) Draw(s *display.Surface, icons *IconSet) {
	if w.Color != nil {
		s.FillRect(w.Rect, w.Color)
	}
	if img := icons.Get(w.Bg); img != nil {
		s.BlitContain(w.Rect, img, false)
	}
	if img := icons.Get(w.Fg); img != nil {
		s.BlitContain(w.Rect, img, false)
	}
}
