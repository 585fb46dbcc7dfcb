// grid/grid.go
package grid

// Size is the fixed side length of the square board.
const Size = 10

// Coord is a cell position on the board.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// IsValid reports whether (x, y) lies on the board.
func IsValid(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}
