package rules

/*
ApplyConwayRules applies Conway's Game of Life rules (B3/S23) to determine the next state of a cell.

A live cell survives with 2 or 3 live neighbours, a dead cell is born with exactly 3.
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	return (alive && neighbors == 2) || neighbors == 3
}
