package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol/playback"
	"github.com/sheikhrachel/go-gol/utils"
)

// errQuit is returned by execCommand when the user asked to leave
var errQuit = errors.New("quit")

const helpText = `Commands:
  p, pause          pause playback
  r, resume         resume playback
  t, toggle         toggle pause/resume
  s, step           advance one generation while paused
  v, revert         restore the last starting configuration
  n, random         load a random grid
  c, clear          kill every cell
  e, edit X Y       toggle the cell nearest to X,Y
  l, load FILE      load a grid file
  w, save FILE      save the grid to a file
  speed NAME        Normal, Fast, Medium or Slow
  h, help           show this help
  q, quit           exit
`

// execCommand translates one input line into controller operations.
// It must run on the controller's loop goroutine.
func execCommand(ctrl *playback.Controller, line string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "p", "pause":
		ctrl.Pause()
	case "r", "resume":
		ctrl.Resume()
	case "t", "toggle":
		ctrl.Toggle()
	case "s", "step":
		ctrl.Step()
	case "v", "revert":
		ctrl.Revert()
	case "n", "random":
		return ctrl.RandomizeNow()
	case "c", "clear":
		ctrl.Clear()
	case "e", "edit":
		if len(args) != 2 {
			return errors.New("[execCommand] usage: edit X Y")
		}
		px, errX := strconv.ParseFloat(args[0], 64)
		py, errY := strconv.ParseFloat(args[1], 64)
		if errX != nil || errY != nil {
			return errors.Errorf("[execCommand] edit position must be numeric, got %q %q", args[0], args[1])
		}
		return ctrl.ToggleCell(ctrl.Grid().Domain().Snap(px, py))
	case "l", "load":
		if len(args) != 1 {
			return errors.New("[execCommand] usage: load FILE")
		}
		return ctrl.LoadFile(args[0])
	case "w", "save":
		if len(args) != 1 {
			return errors.New("[execCommand] usage: save FILE")
		}
		written, err := ctrl.SaveFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved %s\n", written)
	case "speed":
		if len(args) != 1 {
			return errors.New("[execCommand] usage: speed NAME")
		}
		speed, err := playback.ParseSpeed(args[0])
		if err != nil {
			return err
		}
		return ctrl.SetSpeed(speed)
	case "h", "help", "?":
		fmt.Fprint(out, helpText)
	case "q", "quit", "exit":
		return errQuit
	default:
		return errors.Errorf("[execCommand] unknown command %q, type help", fields[0])
	}
	return nil
}

// displayGameStatus shows the current game status
func displayGameStatus(out io.Writer, ctrl *playback.Controller, stats *utils.Stats) {
	livingCells := ctrl.Grid().CountLivingCells()
	domain := ctrl.Grid().Domain()
	density := float64(livingCells) / float64(domain.Len()) * 100

	status := "Active"
	if livingCells == 0 {
		status = "Extinct"
	}

	fmt.Fprintf(out, "Gen: %d | Living: %d | Density: %.1f%% | %s | Speed: %s | Status: %s\n",
		ctrl.Generation(), livingCells, density, ctrl.State(), ctrl.Speed(), status)
	if stats != nil {
		_, perSecond, avgPopulation := stats.Snapshot()
		fmt.Fprintf(out, "Performance: %.1f gen/sec | Avg Pop: %.1f\n", perSecond, avgPopulation)
	}
}
