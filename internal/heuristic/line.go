package heuristic

import "github.com/meridion/gomoku-engine/internal/position"

// Axis indices for the four directions a line of stones can run.
const (
	AxisHorizontal = 0
	AxisVertical   = 1
	AxisDiagDown   = 2 // top-left to bottom-right (down-right)
	AxisDiagUp     = 3 // bottom-left to top-right (down-left/up-right)
)

// axisDirs[axis] holds the two unit steps along an axis: index 0 points
// toward a Line's "start" endpoint, index 1 toward its "end" endpoint.
var axisDirs = [4][2][2]int{
	{{-1, 0}, {1, 0}},
	{{0, -1}, {0, 1}},
	{{-1, -1}, {1, 1}},
	{{-1, 1}, {1, -1}},
}

// Line is a maximal run of >= 2 same-colored stones along one axis.
type Line struct {
	ID        int
	Player    position.Piece
	Start     position.Position
	End       position.Position
	Direction int
	Length    int
	// BlockPos: bit 1 = start endpoint blocked, bit 0 = end endpoint
	// blocked. 0 = open both sides, 1 = half-open (end blocked), 2 =
	// half-open (start blocked), 3 = sealed between two opponents.
	BlockPos uint8
	Score    float64
}

func newLine(id int, player position.Piece, start, end position.Position, axis int, length int, blockPos uint8) *Line {
	return &Line{
		ID:        id,
		Player:    player,
		Start:     start,
		End:       end,
		Direction: axis,
		Length:    length,
		BlockPos:  blockPos,
		Score:     lineScore(blockPos, length, player),
	}
}

// StartBlocked reports whether the start endpoint is blocked.
func (l *Line) StartBlocked() bool {
	return l.BlockPos&0x2 != 0
}

// EndBlocked reports whether the end endpoint is blocked.
func (l *Line) EndBlocked() bool {
	return l.BlockPos&0x1 != 0
}

// BlockCount is the number of blocked endpoints, 0..2 (plus the degenerate
// sealed value of 3 already folded into BlockPos directly).
func (l *Line) BlockCount() int {
	count := 0
	if l.StartBlocked() {
		count++
	}
	if l.EndBlocked() {
		count++
	}
	return count
}
