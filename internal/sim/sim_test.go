package sim

import (
	"image"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camshot/internal/display"
)

func newTestModel() *model {
	return &model{
		backend: display.NewMemory(320, 240),
		keys:    newKeyMap(),
		cols:    80,
	}
}

func TestFrameCellsKeepAspectRatio(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 320, 240))
	cols, rows := frameCells(frame, 80)
	assert.Equal(t, 76, cols)
	// 3:4 aspect, halved because one cell covers two pixel rows
	assert.Equal(t, 76*240/320/2, rows)
}

func TestRenderFrameEmitsOneLinePerCellRow(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 320, 240))
	cols, rows := frameCells(frame, 80)
	require.Greater(t, rows, 0)

	out := renderFrame(frame, 80)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, rows)
	assert.Equal(t, cols, strings.Count(lines[0], "▀"))
}

func TestKeysTranslateToDisplayEvents(t *testing.T) {
	m := newTestModel()

	m.handleKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m.handleKey(tea.KeyMsg{Type: tea.KeyLeft})
	m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})

	events := m.backend.Poll()
	require.Len(t, events, 3)
	assert.Equal(t, display.KeyEvent{Key: display.KeyShutter}, events[0])
	assert.Equal(t, display.KeyEvent{Key: display.KeyLeft}, events[1])
	assert.Equal(t, display.KeyEvent{Key: display.KeyEmergencyQuit}, events[2])
}

func TestMouseClickMapsToFramePixels(t *testing.T) {
	m := newTestModel()
	m.frame = image.NewRGBA(image.Rect(0, 0, 320, 240))
	cols, rows := frameCells(m.frame, m.cols)

	m.handleMouse(tea.MouseMsg{
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
		X:      cols / 2,
		Y:      rows / 2,
	})

	events := m.backend.Poll()
	require.Len(t, events, 1)
	tap, ok := events[0].(display.TapEvent)
	require.True(t, ok)
	// A click in the middle of the rendered frame lands near the middle of
	// the display
	assert.InDelta(t, 160, tap.Pos.X, 8)
	assert.InDelta(t, 120, tap.Pos.Y, 8)
}

func TestMouseIgnoredWithoutFrame(t *testing.T) {
	m := newTestModel()
	m.handleMouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: 1, Y: 1})
	assert.Empty(t, m.backend.Poll())
}
