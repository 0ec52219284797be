// Package board builds the static topology of one game's board (tiles,
// intersections, edges, ports) with stable human-readable names, and answers
// adjacency queries over it.
package board

import (
	"catanbench/game"
	"fmt"
)

// Axial addresses a hex tile. The implicit third cube coordinate is -Q-R.
type Axial struct {
	Q int `json:"q"`
	R int `json:"r"`
}

func (a Axial) String() string {
	return fmt.Sprintf("(%d,%d)", a.Q, a.R)
}

// less orders coordinates by Q then R.
func (a Axial) less(b Axial) bool {
	if a.Q != b.Q {
		return a.Q < b.Q
	}
	return a.R < b.R
}

// Directions are the six neighbour offsets, clockwise from East.
var Directions = [6]Axial{
	{Q: 1, R: 0},  // E
	{Q: 0, R: 1},  // SE
	{Q: -1, R: 1}, // SW
	{Q: -1, R: 0}, // W
	{Q: 0, R: -1}, // NW
	{Q: 1, R: -1}, // NE
}

// DirectionNames label the inner ring tiles.
var DirectionNames = [6]string{"E", "SE", "SW", "W", "NW", "NE"}

// corners lists each hex corner as the pair of directions whose neighbours meet there.
var corners = [6][2]int{
	{0, 5}, // E-NE
	{0, 1}, // E-SE
	{1, 2}, // SE-SW
	{2, 3}, // SW-W
	{3, 4}, // W-NW
	{4, 5}, // NW-NE
}

// CubeToAxial drops the engine's y coordinate: q=x, r=z.
func CubeToAxial(c game.CubeCoord) Axial {
	return Axial{Q: c.X, R: c.Z}
}

// AxialToCube restores y so that x+y+z == 0.
func AxialToCube(a Axial) game.CubeCoord {
	return game.CubeCoord{X: a.Q, Y: -a.Q - a.R, Z: a.R}
}

// Neighbors returns all six adjacent coordinates, whether or not a tile sits there.
func Neighbors(a Axial) [6]Axial {
	var result [6]Axial
	for i, d := range Directions {
		result[i] = Axial{Q: a.Q + d.Q, R: a.R + d.R}
	}
	return result
}

// Distance is the hex (cube Chebyshev) distance between two tiles.
func Distance(a, b Axial) int {
	ca, cb := AxialToCube(a), AxialToCube(b)
	return max(abs(ca.X-cb.X), abs(ca.Y-cb.Y), abs(ca.Z-cb.Z))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
