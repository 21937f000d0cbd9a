// Package position implements the board coordinate and piece primitives
// shared by board, heuristic and search.
package position

import "fmt"

// BoardSize is the fixed edge length of a Gomoku board.
const BoardSize = 19

// CellCount is the number of addressable cells on a board.
const CellCount = BoardSize * BoardSize

// Position is a bounded (x, y) coordinate, 0 <= x, y < BoardSize.
type Position struct {
	X, Y int
}

// New validates (x, y) and returns the corresponding Position.
func New(x, y int) (Position, bool) {
	if x < 0 || x >= BoardSize || y < 0 || y >= BoardSize {
		return Position{}, false
	}
	return Position{X: x, Y: y}, true
}

// FromIndex decodes a row-major cell index (y*BoardSize+x) into a Position.
func FromIndex(idx int) (Position, bool) {
	if idx < 0 || idx >= CellCount {
		return Position{}, false
	}
	return Position{X: idx % BoardSize, Y: idx / BoardSize}, true
}

// Index returns the row-major cell index y*BoardSize+x used for hashing,
// board storage and display ordering.
func (p Position) Index() int {
	return p.Y*BoardSize + p.X
}

// Relocate returns the position offset by (dx, dy), failing when the result
// leaves the board. Callers rely on this failure as a boundary signal.
func (p Position) Relocate(dx, dy int) (Position, bool) {
	return New(p.X+dx, p.Y+dy)
}

// RelocateN returns the position offset by n*(dx, dy), failing if any
// intermediate step leaves the board.
func (p Position) RelocateN(dx, dy, n int) (Position, bool) {
	cur := p
	for i := 0; i < n; i++ {
		next, ok := cur.Relocate(dx, dy)
		if !ok {
			return Position{}, false
		}
		cur = next
	}
	return cur, true
}

func (p Position) String() string {
	if p.X < 0 || p.X >= BoardSize || p.Y < 0 || p.Y >= BoardSize {
		return "invalid position"
	}
	return fmt.Sprintf("%c%d", rune('A'+p.Y), p.X)
}
