package display

import (
	"image"
	stddraw "image/draw"
	"sync"
)

// Memory is an in-process backend. Tests and the terminal simulator feed
// events in with Push and read presented frames back out.
type Memory struct {
	mu       sync.Mutex
	width    int
	height   int
	pending  []Event
	last     *image.RGBA
	presents int
	onFrame  func(*image.RGBA)
}

// NewMemory creates a memory backend of the given size
func NewMemory(width, height int) *Memory {
	return &Memory{width: width, height: height}
}

// OnFrame registers a callback invoked after every Present with a copy of
// the frame. Used by the simulator to trigger a repaint.
func (m *Memory) OnFrame(fn func(*image.RGBA)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onFrame = fn
}

// Push queues input events for the next Poll
func (m *Memory) Push(events ...Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, events...)
}

func (m *Memory) Size() (int, int) {
	return m.width, m.height
}

func (m *Memory) Poll() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := m.pending
	m.pending = nil
	return events
}

func (m *Memory) Present(frame *image.RGBA) error {
	cp := image.NewRGBA(frame.Bounds())
	stddraw.Draw(cp, frame.Bounds(), frame, frame.Bounds().Min, stddraw.Src)

	m.mu.Lock()
	m.last = cp
	m.presents++
	fn := m.onFrame
	m.mu.Unlock()

	if fn != nil {
		fn(cp)
	}
	return nil
}

// LastFrame returns the most recently presented frame, or nil
func (m *Memory) LastFrame() *image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Presents reports how many frames have been presented
func (m *Memory) Presents() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presents
}

func (m *Memory) Close() error {
	return nil
}
