package model

import (
	"bufio"
	"io"
	"log/slog"
	"os/exec"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	macosClearCmd = "clear"
)

// TerminalRenderer draws a domain to a terminal, top row first
type TerminalRenderer struct {
	domain Domain
	out    io.Writer
	live   string
	clear  bool
	logger *slog.Logger
}

// NewTerminalRenderer creates a renderer writing to out.
// When clearScreen is set, the terminal is cleared before every frame.
// Frame and clear failures go to logger; nil discards them.
func NewTerminalRenderer(domain Domain, out io.Writer, color, clearScreen bool, logger *slog.Logger) *TerminalRenderer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	au := aurora.NewAurora(color)
	return &TerminalRenderer{
		logger: logger,
		domain: domain,
		out:    out,
		live:   au.Green(gridPosBlock).String(),
		clear:  clearScreen,
	}
}

// Render draws a mark for every alive cell and blanks the rest
func (r *TerminalRenderer) Render(cells CellSet) {
	if r.clear {
		r.Clear()
	}
	if err := r.Display(cells); err != nil {
		r.logger.Error("failed to render frame", "error", err)
	}
}

// Display writes one frame. Rows run from the largest y down to the smallest.
func (r *TerminalRenderer) Display(cells CellSet) error {
	w := bufio.NewWriter(r.out)
	u := r.domain.Unit()
	for y := r.domain.MaxY(); y >= r.domain.MinY(); y -= u {
		for x := r.domain.MinX(); x <= r.domain.MaxX(); x += u {
			if cells.Has(Coordinate{X: x, Y: y}) {
				w.WriteString(r.live)
			} else {
				w.WriteString(gridPosEmpty)
			}
		}
		w.WriteByte('\n')
	}
	return errors.Wrap(w.Flush(), "[Display] failed to write frame")
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() {
	cmd := exec.Command(macosClearCmd)
	cmd.Stdout = r.out
	if err := cmd.Run(); err != nil {
		r.logger.Error("failed to clear terminal", "error", err)
	}
}
