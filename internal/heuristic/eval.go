package heuristic

import (
	"math"

	"github.com/meridion/gomoku-engine/internal/board"
	"github.com/meridion/gomoku-engine/internal/position"
)

// ScoreFull returns the full board evaluation: +Inf if Max holds 5+
// captures, -Inf if Min does, else the sum of every Line's signed score
// plus a small positional bonus and the capture-count differential.
// The result is cached on first call.
func (h *Heuristic) ScoreFull() float64 {
	if h.score != nil {
		return *h.score
	}

	maxCap := captureScore(h.captures[MaxCaptures])
	minCap := captureScore(h.captures[MinCaptures])
	if math.IsInf(maxCap, 1) {
		s := math.Inf(1)
		h.score = &s
		return s
	}
	if math.IsInf(minCap, 1) {
		s := math.Inf(-1)
		h.score = &s
		return s
	}

	var sum float64
	for _, line := range h.lines {
		sum += line.Score
	}

	h.board.Each(func(pos position.Position, p position.Piece) {
		if p.IsPiece() {
			sum += p.Sign() * positionScore(pos)
		}
	})

	sum += maxCap - minCap

	h.score = &sum
	return sum
}

// positionScore rewards cells nearer the center of the board: both axes
// contribute half each, each peaking at 1 on the center line and falling
// off linearly toward the edges.
func positionScore(pos position.Position) float64 {
	x := 1 - math.Abs(9.5-float64(pos.X))/9.5
	y := 1 - math.Abs(9.5-float64(pos.Y))/9.5
	return (x + y) / 2
}

// EvaluationScore is the outcome of predicting a single move without
// mutating the board: the resulting heuristic score, a bitmask of the
// axis/side capture slots that would trigger, and how many captures that
// implies. It is approximate once captures occur; a real move should
// still go through board.SetMove and Heuristic.Derive for the ground
// truth.
type EvaluationScore struct {
	Score        float64
	CaptureMap   uint8
	CaptureCount int
}

// EvaluateVirtualMove predicts the effect of playing player at pos without
// mutating the board, by examining only the (at most 8) neighboring Lines
// along the four axes.
func (h *Heuristic) EvaluateVirtualMove(pos position.Position, player position.Piece) EvaluationScore {
	result := EvaluationScore{Score: h.ScoreFull()}
	opponent := player.Opposite()

	for axis := 0; axis < 4; axis++ {
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

		// Capture detection: a neighbor belonging to an opponent 2-line
		// whose far endpoint is already blocked means this move completes
		// a player-opponent-opponent-player sandwich.
		if line0 != nil && line0.Player == opponent && line0.Length == 2 && line0.StartBlocked() {
			result.CaptureMap |= 1 << uint(axis*2)
			result.CaptureCount++
		}
		if line1 != nil && line1.Player == opponent && line1.Length == 2 && line1.EndBlocked() {
			result.CaptureMap |= 1 << uint(axis*2+1)
			result.CaptureCount++
		}

		lenAdd0, blocked0, delta0 := sideContribution(line0, ok0, n0, player, dirs[0], h.board)
		lenAdd1, blocked1, delta1 := sideContribution(line1, ok1, n1, player, dirs[1], h.board)

		var newBlockPos uint8
		if blocked0 {
			newBlockPos |= 0x2
		}
		if blocked1 {
			newBlockPos |= 0x1
		}
		newLength := 1 + lenAdd0 + lenAdd1

		result.Score += delta0 + delta1 + lineScore(newBlockPos, newLength, player)
	}

	return result
}

// sideContribution computes one side's effect on the hypothetical new line
// formed at pos, plus any score delta from a neighboring line being
// replaced or newly blocked. dir points away from pos toward that side.
func sideContribution(line *Line, inBounds bool, neighbor position.Position, player position.Piece, dir [2]int, b *board.Board) (lengthAdd int, sideBlocked bool, scoreDelta float64) {
	if !inBounds {
		return 0, true, 0
	}

	neighborPiece := b.Get(neighbor)

	switch {
	case line != nil && line.Player == player:
		// Friendly line: we adopt its length and far-side block flag, and
		// remove its score since it will be replaced by the new line.
		scoreDelta -= line.Score
		lengthAdd = line.Length
		if dir == axisDirs[line.Direction][0] {
			// neighbor is this line's End (nearer to pos); far side is Start.
			sideBlocked = line.StartBlocked()
		} else {
			sideBlocked = line.EndBlocked()
		}

	case line == nil && neighborPiece == player:
		// Friendly singleton: length 1, blocked iff the next cell further
		// out is an opponent stone.
		lengthAdd = 1
		far, ok := neighbor.Relocate(dir[0], dir[1])
		sideBlocked = ok && b.Get(far) == player.Opposite()

	case line != nil && line.Player != player:
		// Opponent line: it becomes more blocked on its near side.
		var nearBit uint8
		if dir == axisDirs[line.Direction][0] {
			nearBit = 0x1 // neighbor is the line's End
		} else {
			nearBit = 0x2 // neighbor is the line's Start
		}
		newBlock := line.BlockPos | nearBit
		scoreDelta -= line.Score
		scoreDelta += lineScore(newBlock, line.Length, line.Player)
		sideBlocked = true

	case line == nil && neighborPiece.IsPiece():
		// Opponent singleton: blocks this side outright.
		sideBlocked = true

	default:
		// Empty: open side, no contribution.
	}

	return lengthAdd, sideBlocked, scoreDelta
}
