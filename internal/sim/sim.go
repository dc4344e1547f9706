// Package sim runs the camera UI inside a terminal when no display or
// sensor is attached. The dispatch loop runs unmodified against a memory
// backend and a fake camera; the simulator renders presented frames as
// half-block characters and translates terminal input back into key and
// tap events.
package sim

import (
	"image"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"camshot/internal/display"
	"camshot/internal/log"
)

// frameMsg carries a presented frame into the bubbletea update loop
type frameMsg struct {
	img *image.RGBA
}

// loopDoneMsg signals that the dispatch loop has exited
type loopDoneMsg struct{}

type keyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Shutter key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Select, k.Shutter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newKeyMap() keyMap {
	return keyMap{
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "screen up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "screen down")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Shutter: key.NewBinding(key.WithKeys(" ", "a"), key.WithHelp("space", "shutter")),
		Quit:    key.NewBinding(key.WithKeys("z", "esc", "ctrl+c"), key.WithHelp("z", "quit")),
	}
}

type model struct {
	backend *display.Memory
	keys    keyMap
	help    help.Model
	frame   *image.RGBA
	cols    int
	done    bool
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = msg.img
		return m, nil
	case loopDoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.cols = msg.Width
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.backend.Push(display.KeyEvent{Key: display.KeyLeft})
	case key.Matches(msg, m.keys.Right):
		m.backend.Push(display.KeyEvent{Key: display.KeyRight})
	case key.Matches(msg, m.keys.Up):
		m.backend.Push(display.KeyEvent{Key: display.KeyUp})
	case key.Matches(msg, m.keys.Down):
		m.backend.Push(display.KeyEvent{Key: display.KeyDown})
	case key.Matches(msg, m.keys.Select):
		m.backend.Push(display.KeyEvent{Key: display.KeySelect})
	case key.Matches(msg, m.keys.Shutter):
		m.backend.Push(display.KeyEvent{Key: display.KeyShutter})
	case key.Matches(msg, m.keys.Quit):
		m.backend.Push(display.KeyEvent{Key: display.KeyEmergencyQuit})
	}
	return m, nil
}

// handleMouse maps a terminal cell click back to display pixel coordinates
// and feeds it in as a tap, so the on-screen widgets are clickable.
func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.frame == nil {
		return m, nil
	}
	cols, rows := frameCells(m.frame, m.cols)
	if cols == 0 || rows == 0 || msg.X >= cols || msg.Y >= rows {
		return m, nil
	}
	b := m.frame.Bounds()
	p := image.Pt(
		b.Min.X+msg.X*b.Dx()/cols,
		b.Min.Y+(msg.Y*2)*b.Dy()/(rows*2),
	)
	log.Debugf("simulated tap at %v", p)
	m.backend.Push(display.TapEvent{Pos: p})
	return m, nil
}

func (m *model) View() string {
	if m.done {
		return ""
	}
	body := statusStyle.Render("waiting for first frame")
	if m.frame != nil {
		body = renderFrame(m.frame, m.cols)
	}
	return titleStyle.Render("camshot simulator") + "\n" +
		frameStyle.Render(body) + "\n" +
		m.help.View(m.keys)
}

// Run drives the given dispatch loop under a terminal renderer. It returns
// when the loop exits (quit confirmed) or the program is interrupted.
func Run(loop func() error, backend *display.Memory) error {
	m := &model{
		backend: backend,
		keys:    newKeyMap(),
		help:    help.New(),
		cols:    80,
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	backend.OnFrame(func(frame *image.RGBA) {
		p.Send(frameMsg{img: frame})
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- loop()
		p.Send(loopDoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return err
	}
	return <-errCh
}
