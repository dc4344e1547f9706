// Package display provides the drawing surface the UI paints on and the
// narrow backend interface that connects it to a real screen and input
// source (TFT framebuffer, desktop window, or terminal simulator).
package display

import "image"

// Key identifies a physical key or button
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	// KeySelect is the enter/OK button
	KeySelect
	// KeyShutter is the hardware shutter button
	KeyShutter
	// KeyEmergencyQuit is the development escape hatch
	KeyEmergencyQuit
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeySelect:
		return "select"
	case KeyShutter:
		return "shutter"
	case KeyEmergencyQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Event is a discrete input event; either a KeyEvent or a TapEvent
type Event interface {
	event()
}

// KeyEvent is a key-down event
type KeyEvent struct {
	Key Key
}

func (KeyEvent) event() {}

// TapEvent is a pointer-down event in display pixel coordinates
type TapEvent struct {
	Pos image.Point
}

func (TapEvent) event() {}

// Backend abstracts the physical display and its input source. Poll never
// blocks; it returns whatever events arrived since the previous call.
// Present pushes a finished frame to the screen and may be called from the
// busy-indicator goroutine as well as the main loop, though never
// concurrently (the dispatch loop joins the indicator before presenting).
type Backend interface {
	Size() (width, height int)
	Poll() []Event
	Present(frame *image.RGBA) error
	Close() error
}
