package heuristic

import "github.com/meridion/gomoku-engine/internal/position"

// resultantShape predicts the (length, blockPos) of the Line that would
// exist along axis after player is placed at pos, without touching the
// capture or scoring machinery.
func (h *Heuristic) resultantShape(pos position.Position, axis int, player position.Piece) (length int, blockPos uint8) {
	dirs := axisDirs[axis]
	n0, ok0 := pos.Relocate(dirs[0][0], dirs[0][1])
	n1, ok1 := pos.Relocate(dirs[1][0], dirs[1][1])

	var line0, line1 *Line
	if ok0 {
		line0 = h.getLine(n0, axis)
	}
	if ok1 {
		line1 = h.getLine(n1, axis)
	}

	lenAdd0, blocked0, _ := sideContribution(line0, ok0, n0, player, dirs[0], h.board)
	lenAdd1, blocked1, _ := sideContribution(line1, ok1, n1, player, dirs[1], h.board)

	if blocked0 {
		blockPos |= 0x2
	}
	if blocked1 {
		blockPos |= 0x1
	}
	return 1 + lenAdd0 + lenAdd1, blockPos
}

// isFreeThree reports whether placing player at pos would create an
// open (unblocked on both ends) run of exactly three along axis: a free
// three, one move away from an open four.
func (h *Heuristic) isFreeThree(pos position.Position, axis int, player position.Piece) bool {
	length, blockPos := h.resultantShape(pos, axis, player)
	return length == 3 && blockPos == 0
}

// IsLegal reports whether player may be placed at pos: the cell must be
// empty, and the move must not create free threes on two or more distinct
// axes simultaneously (the double-free-three rule).
func (h *Heuristic) IsLegal(pos position.Position, player position.Piece) bool {
	if h.board.Get(pos).IsPiece() {
		return false
	}
	freeThrees := 0
	for axis := 0; axis < 4; axis++ {
		if h.isFreeThree(pos, axis, player) {
			freeThrees++
		}
	}
	return freeThrees < 2
}

// InvalidMoves returns every empty cell that player is forbidden from
// playing due to the double-free-three rule.
func (h *Heuristic) InvalidMoves(player position.Piece) []position.Position {
	var out []position.Position
	h.board.Each(func(pos position.Position, p position.Piece) {
		if p.IsPiece() {
			return
		}
		if !h.IsLegal(pos, player) {
			out = append(out, pos)
		}
	})
	return out
}
