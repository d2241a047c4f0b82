package model

import (
	"github.com/pkg/errors"
)

// ErrOutOfDomain is returned when a coordinate is not part of the grid
var ErrOutOfDomain = errors.New("coordinate out of domain")

// Grid holds the alive flag of every cell of a fixed domain
type Grid struct {
	domain Domain
	cells  []bool
}

// NewGrid creates a grid covering the domain with all cells dead
func NewGrid(domain Domain) *Grid {
	return &Grid{
		domain: domain,
		cells:  make([]bool, domain.Len()),
	}
}

// Domain returns the fixed set of coordinates the grid covers
func (g *Grid) Domain() Domain {
	return g.domain
}

// Set marks every domain cell alive iff it is in cells.
// Coordinates outside the domain are ignored.
func (g *Grid) Set(cells CellSet) {
	for i := range g.cells {
		g.cells[i] = false
	}
	for c := range cells {
		if i, ok := g.domain.index(c); ok {
			g.cells[i] = true
		}
	}
}

// Clear kills all cells
func (g *Grid) Clear() {
	g.Set(nil)
}

// Toggle flips the alive flag of c
func (g *Grid) Toggle(c Coordinate) error {
	i, ok := g.domain.index(c)
	if !ok {
		return errors.Wrapf(ErrOutOfDomain, "[Toggle] %v", c)
	}
	g.cells[i] = !g.cells[i]
	return nil
}

// IsAlive returns the state of a cell
func (g *Grid) IsAlive(c Coordinate) (bool, error) {
	i, ok := g.domain.index(c)
	if !ok {
		return false, errors.Wrapf(ErrOutOfDomain, "[IsAlive] %v", c)
	}
	return g.cells[i], nil
}

// alive is IsAlive for neighbour scanning: off-domain cells read as absent
func (g *Grid) alive(c Coordinate) bool {
	i, ok := g.domain.index(c)
	return ok && g.cells[i]
}

// AliveSet returns the coordinates currently alive
func (g *Grid) AliveSet() CellSet {
	out := make(CellSet)
	for i, alive := range g.cells {
		if alive {
			out.Add(g.domain.at(i))
		}
	}
	return out
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for _, alive := range g.cells {
		if alive {
			count++
		}
	}
	return
}
