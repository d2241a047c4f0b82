package model

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// DefaultUnit is the spacing between neighbouring cell coordinates
const DefaultUnit = 10

// Coordinate identifies a cell on the lattice
type Coordinate struct {
	X, Y int
}

// String formats the coordinate the way it is stored in grid files
func (c Coordinate) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// Domain is the fixed, finite set of valid coordinates, centered at the origin
type Domain struct {
	halfX int
	halfY int
	unit  int
}

// NewDomain builds a domain from the requested width, height and margin.
// Each dimension is adjusted to the next odd number so the origin is the center cell.
func NewDomain(width, height, margin, unit int) (Domain, error) {
	if width <= 0 || height <= 0 {
		return Domain{}, errors.Errorf("[NewDomain] width and height must be positive, got %dx%d", width, height)
	}
	if margin < 0 {
		return Domain{}, errors.Errorf("[NewDomain] margin must not be negative, got %d", margin)
	}
	if unit <= 0 {
		return Domain{}, errors.Errorf("[NewDomain] unit must be positive, got %d", unit)
	}

	width, height, margin = oddUp(width), oddUp(height), oddUp(margin)
	return Domain{
		halfX: (width + margin) / 2,
		halfY: (height + margin) / 2,
		unit:  unit,
	}, nil
}

func oddUp(v int) int {
	return v/2*2 + 1
}

// Unit returns the coordinate step between adjacent cells
func (d Domain) Unit() int {
	return d.unit
}

// Width returns the number of columns
func (d Domain) Width() int {
	return 2*d.halfX + 1
}

// Height returns the number of rows
func (d Domain) Height() int {
	return 2*d.halfY + 1
}

// Len returns the number of cells in the domain
func (d Domain) Len() int {
	return d.Width() * d.Height()
}

// MinX, MaxX, MinY and MaxY return the coordinate bounds
func (d Domain) MinX() int { return -d.halfX * d.unit }
func (d Domain) MaxX() int { return d.halfX * d.unit }
func (d Domain) MinY() int { return -d.halfY * d.unit }
func (d Domain) MaxY() int { return d.halfY * d.unit }

// Contains reports whether c is a valid cell of the domain
func (d Domain) Contains(c Coordinate) bool {
	_, ok := d.index(c)
	return ok
}

// index maps c onto a dense column-major slot, x outer and y inner
func (d Domain) index(c Coordinate) (int, bool) {
	if d.unit == 0 || c.X%d.unit != 0 || c.Y%d.unit != 0 {
		return 0, false
	}
	col := c.X/d.unit + d.halfX
	row := c.Y/d.unit + d.halfY
	if col < 0 || col >= d.Width() || row < 0 || row >= d.Height() {
		return 0, false
	}
	return col*d.Height() + row, true
}

// at is the inverse of index
func (d Domain) at(i int) Coordinate {
	col, row := i/d.Height(), i%d.Height()
	return Coordinate{
		X: (col - d.halfX) * d.unit,
		Y: (row - d.halfY) * d.unit,
	}
}

// Coordinates lists every cell in iteration order: x ascending, then y ascending
func (d Domain) Coordinates() []Coordinate {
	out := make([]Coordinate, d.Len())
	for i := range out {
		out[i] = d.at(i)
	}
	return out
}

// Snap rounds a raw pointer position to the nearest grid coordinate.
// The result may lie outside the domain.
func (d Domain) Snap(px, py float64) Coordinate {
	u := float64(d.unit)
	return Coordinate{
		X: int(math.RoundToEven(px/u)) * d.unit,
		Y: int(math.RoundToEven(py/u)) * d.unit,
	}
}
