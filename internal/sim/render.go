package sim

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4F4FB7")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595"))

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262"))
)

// maxFrameCols caps the rendered frame width in terminal cells
const maxFrameCols = 100

// frameCells returns the terminal cell grid used for a frame at the given
// terminal width, preserving the frame's aspect ratio. One cell is one
// pixel wide and two pixels tall.
func frameCells(frame *image.RGBA, termCols int) (cols, rows int) {
	b := frame.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return 0, 0
	}
	cols = termCols - 4
	if cols > maxFrameCols {
		cols = maxFrameCols
	}
	if cols < 2 {
		cols = 2
	}
	rows = cols * b.Dy() / b.Dx() / 2
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// renderFrame draws a frame as truecolor half-block characters, one cell
// per pixel pair. The escape codes are emitted directly; going through a
// style object per cell is far too slow at this volume.
func renderFrame(frame *image.RGBA, termCols int) string {
	cols, rows := frameCells(frame, termCols)
	if cols == 0 {
		return ""
	}

	small := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), frame, frame.Bounds(), draw.Src, nil)

	var sb strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := small.RGBAAt(x, y*2)
			bot := small.RGBAAt(x, y*2+1)
			fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bot.R, bot.G, bot.B)
		}
		sb.WriteString("\x1b[0m")
		if y < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
