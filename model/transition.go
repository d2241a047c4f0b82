package model

import (
	"github.com/sheikhrachel/go-gol/rules"
)

// NextGeneration applies the Life rule once over the whole domain and returns
// the resulting alive set. The grid itself is not modified, so every cell is
// evaluated against the same snapshot.
func NextGeneration(g *Grid) CellSet {
	next := make(CellSet)
	for i, alive := range g.cells {
		c := g.domain.at(i)
		if rules.ApplyConwayRules(CountAliveNeighbors(g, c), alive) {
			next.Add(c)
		}
	}
	return next
}
