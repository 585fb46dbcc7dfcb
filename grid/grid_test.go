package grid

import "testing"

func TestIsValid(t *testing.T) {
	valid := []Coord{{0, 0}, {Size - 1, Size - 1}, {3, 7}}
	for _, c := range valid {
		if !IsValid(c.X, c.Y) {
			t.Errorf("Expected (%d,%d) to be valid", c.X, c.Y)
		}
	}

	invalid := []Coord{{-1, 0}, {0, -1}, {Size, 0}, {0, Size}, {-5, 20}}
	for _, c := range invalid {
		if IsValid(c.X, c.Y) {
			t.Errorf("Expected (%d,%d) to be invalid", c.X, c.Y)
		}
	}
}
