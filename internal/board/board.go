// Package board implements the 19x19 Gomoku grid: move application,
// capture detection and diffing against another board.
package board

import (
	"fmt"
	"strconv"

	"github.com/meridion/gomoku-engine/internal/position"
)

// rays enumerates the 8 outward capture rays in a fixed order. Each ray's
// three steps are [1-step, 2-step, 3-step] offsets from the played cell;
// a capture requires opponent, opponent, friendly in that order.
var rays = [8][3][2]int{
	{{-1, 0}, {-2, 0}, {-3, 0}},
	{{1, 0}, {2, 0}, {3, 0}},
	{{0, 1}, {0, 2}, {0, 3}},
	{{0, -1}, {0, -2}, {0, -3}},
	{{-1, -1}, {-2, -2}, {-3, -3}},
	{{1, 1}, {2, 2}, {3, 3}},
	{{-1, 1}, {-2, 2}, {-3, 3}},
	{{1, -1}, {2, -2}, {3, -3}},
}

// Board is a 361-cell grid of pieces, addressable by Position.
type Board struct {
	cells [position.CellCount]position.Piece
}

// New returns an all-Empty board.
func New() *Board {
	b := &Board{}
	for i := range b.cells {
		b.cells[i] = position.Empty
	}
	return b
}

// FromSparse builds a Board from a sparse { cell-index -> player-code }
// mapping: "0" = Max, "1" = Min. Missing keys are Empty. Keys that fail to
// parse as a cell index or carry an unrecognized player code are ignored,
// matching the tolerant decode the transport layer expects from §6.
func FromSparse(sparse map[string]int) *Board {
	b := New()
	for key, code := range sparse {
		idx, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		pos, ok := position.FromIndex(idx)
		if !ok {
			continue
		}
		switch code {
		case 0:
			b.cells[pos.Index()] = position.Max
		case 1:
			b.cells[pos.Index()] = position.Min
		}
	}
	return b
}

// Get returns the piece at pos.
func (b *Board) Get(pos position.Position) position.Piece {
	return b.cells[pos.Index()]
}

// At is a convenience accessor by raw coordinates.
func (b *Board) At(x, y int) position.Piece {
	pos, ok := position.New(x, y)
	if !ok {
		return position.Empty
	}
	return b.Get(pos)
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	clone := &Board{}
	clone.cells = b.cells
	return clone
}

// Each visits all 361 positions in row-major order.
func (b *Board) Each(fn func(pos position.Position, p position.Piece)) {
	for idx := 0; idx < position.CellCount; idx++ {
		pos, _ := position.FromIndex(idx)
		fn(pos, b.cells[idx])
	}
}

// Diff returns the set of positions where a and b disagree.
func Diff(a, b *Board) []position.Position {
	var out []position.Position
	for idx := 0; idx < position.CellCount; idx++ {
		if a.cells[idx] != b.cells[idx] {
			pos, _ := position.FromIndex(idx)
			out = append(out, pos)
		}
	}
	return out
}

// CapturesMask returns a bitfield over the 8 outward rays from pos. Bit d is
// set iff the three cells at distances 1, 2, 3 from pos along ray d are
// opponent, opponent, player in order.
func (b *Board) CapturesMask(pos position.Position, player position.Piece) uint8 {
	opponent := player.Opposite()
	var mask uint8
	for d, ray := range rays {
		p1, ok1 := pos.Relocate(ray[0][0], ray[0][1])
		p2, ok2 := pos.Relocate(ray[1][0], ray[1][1])
		p3, ok3 := pos.Relocate(ray[2][0], ray[2][1])
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		if b.Get(p1) == opponent && b.Get(p2) == opponent && b.Get(p3) == player {
			mask |= 1 << uint(d)
		}
	}
	return mask
}

// SetMove writes player at pos, applies the capture mask (caller-supplied
// captureHint if non-nil, otherwise freshly computed) and clears captured
// opponent pairs. Panics if pos is already occupied, or if a set bit's ray
// does not actually hold two opponent stones: both cases indicate a
// malformed mask and never occur against a legally-generated move.
func (b *Board) SetMove(pos position.Position, player position.Piece, captureHint *uint8) (capturesApplied int) {
	if b.Get(pos).IsPiece() {
		panic(fmt.Sprintf("board: SetMove on occupied cell %v", pos))
	}
	b.cells[pos.Index()] = player

	mask := captureHint
	var computed uint8
	if mask == nil {
		computed = b.CapturesMask(pos, player)
		mask = &computed
	}

	opponent := player.Opposite()
	for d := 0; d < 8; d++ {
		if *mask&(1<<uint(d)) == 0 {
			continue
		}
		ray := rays[d]
		p1, ok1 := pos.Relocate(ray[0][0], ray[0][1])
		p2, ok2 := pos.Relocate(ray[1][0], ray[1][1])
		if !ok1 || !ok2 || b.Get(p1) != opponent || b.Get(p2) != opponent {
			panic(fmt.Sprintf("board: capture mask bit %d at %v does not hold two opponent stones", d, pos))
		}
		b.cells[p1.Index()] = position.Empty
		b.cells[p2.Index()] = position.Empty
		capturesApplied++
	}
	return capturesApplied
}
