package model

// CountAliveNeighbors counts the living cells among the up to 8 neighbours of c.
// Neighbours outside the domain do not contribute, so border cells see fewer slots.
func CountAliveNeighbors(g *Grid, c Coordinate) int {
	count := 0
	u := g.domain.unit
	for dx := -u; dx <= u; dx += u {
		for dy := -u; dy <= u; dy += u {
			if dx == 0 && dy == 0 {
				continue // Skip the cell itself
			}
			if g.alive(Coordinate{X: c.X + dx, Y: c.Y + dy}) {
				count++
			}
		}
	}
	return count
}
