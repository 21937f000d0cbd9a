// Package engine wires the board, the incremental heuristic and the
// search together into the operations the transport layer exposes:
// calculate, evaluate, inv_moves and hotseat_move. Every operation is
// stateless: callers supply the board and captures on each call, matching
// the wire protocol's per-request contract.
package engine

import (
	"errors"
	"math"

	"github.com/meridion/gomoku-engine/internal/board"
	"github.com/meridion/gomoku-engine/internal/heuristic"
	"github.com/meridion/gomoku-engine/internal/position"
	"github.com/meridion/gomoku-engine/internal/search"
)

// InfinitySentinel is the JSON-safe stand-in for +-Inf scores: JSON has no
// representation for infinity, so a forced win/loss is reported as
// +-1234.0 with a companion mate_in ply count.
const InfinitySentinel = 1234.0

var (
	// ErrOccupiedCell is returned when a move targets a cell that already
	// holds a stone.
	ErrOccupiedCell = errors.New("engine: cell already occupied")
	// ErrDoubleFreeThree is returned when a move would create free
	// threes on two or more axes at once.
	ErrDoubleFreeThree = errors.New("engine: move creates a double free three")
	// ErrMalformedRequest marks a request that carries a position outside
	// the board or otherwise cannot be resolved to a move. No function in
	// this package returns it; the transport layer attaches it to the
	// warning it logs when it drops such a request.
	ErrMalformedRequest = errors.New("engine: malformed request")
)

// SanitizeScore maps +-Inf to the +-1234.0 sentinel; every other score
// passes through unchanged.
func SanitizeScore(score float64) float64 {
	if math.IsInf(score, 1) {
		return InfinitySentinel
	}
	if math.IsInf(score, -1) {
		return -InfinitySentinel
	}
	return score
}

func sideIndex(player position.Piece) int {
	if player == position.Max {
		return heuristic.MaxCaptures
	}
	return heuristic.MinCaptures
}

// ApplyMove validates player's move at pos against b and, if legal, returns
// the board and captures that result. b itself is never mutated.
func ApplyMove(b *board.Board, captures [2]int, pos position.Position, player position.Piece) (*board.Board, [2]int, int, error) {
	if b.Get(pos).IsPiece() {
		return nil, captures, 0, ErrOccupiedCell
	}
	h := heuristic.Build(b, captures)
	if !h.IsLegal(pos, player) {
		return nil, captures, 0, ErrDoubleFreeThree
	}

	next := b.Clone()
	mask := b.CapturesMask(pos, player)
	captured := next.SetMove(pos, player, &mask)

	newCaptures := captures
	newCaptures[sideIndex(player)] += captured
	return next, newCaptures, captured, nil
}

// HotseatMove applies a move made by a human player at the board, the same
// way two people sharing one client would play.
func HotseatMove(b *board.Board, captures [2]int, pos position.Position, player position.Piece) (*board.Board, [2]int, error) {
	next, newCaptures, _, err := ApplyMove(b, captures, pos, player)
	if err != nil {
		return nil, captures, err
	}
	return next, newCaptures, nil
}

// CalculateResult is the outcome of a search request. InitialBoard and
// InitialCaptures are the position as received; PostMoveBoard and
// PostMoveCaptures are that position after in_move (if any) was applied —
// the two snapshots the transport layer broadcasts as boardUpdate
// notifications before the terminal response.
type CalculateResult struct {
	InitialBoard     *board.Board
	InitialCaptures  [2]int
	PostMoveBoard    *board.Board
	PostMoveCaptures [2]int
	CurrentScore     float64
	Score            float64
	MateIn           *int
	DepthHits        map[int]int
	Moves            []search.Move
}

// Calculate applies an optional pre-move, resolves the side to move at the
// root, and runs a fixed-depth search from there.
//
// Side-to-move at root: the request supplies player (the side that just
// moved, or is about to move in hint mode) and an is_hint flag. The root
// searches from player iff hinting, otherwise from player's opponent.
//
// Pre-move at root: if in_move is non-nil, it is applied as player's move
// before the heuristic is built and the search begins.
func Calculate(b *board.Board, captures [2]int, player position.Piece, depth int, inMove *position.Position, isHint bool) (CalculateResult, error) {
	result := CalculateResult{
		InitialBoard:     b,
		InitialCaptures:  captures,
		PostMoveBoard:    b,
		PostMoveCaptures: captures,
	}

	workingBoard, workingCaptures := b, captures
	if inMove != nil {
		next, newCaptures, _, err := ApplyMove(b, captures, *inMove, player)
		if err != nil {
			return CalculateResult{}, err
		}
		workingBoard, workingCaptures = next, newCaptures
		result.PostMoveBoard, result.PostMoveCaptures = next, newCaptures
	}

	h := heuristic.Build(workingBoard, workingCaptures)
	result.CurrentScore = SanitizeScore(h.ScoreFull())

	rootPlayer := player.Opposite()
	if isHint {
		rootPlayer = player
	}

	sr := search.Search(h, rootPlayer, depth)
	result.Score = SanitizeScore(sr.Score)
	result.MateIn = sr.MateIn
	result.DepthHits = sr.DepthHits
	result.Moves = sr.Moves
	return result, nil
}

// Evaluate returns the sanitized heuristic score and the ordered candidate
// list for player to move on b.
func Evaluate(b *board.Board, captures [2]int, player position.Piece) (float64, []heuristic.Candidate) {
	h := heuristic.Build(b, captures)
	return SanitizeScore(h.ScoreFull()), h.CandidateMoves(player)
}

// InvalidMoves lists every empty cell player is forbidden to play due to
// the double-free-three rule.
func InvalidMoves(b *board.Board, captures [2]int, player position.Piece) []position.Position {
	return heuristic.Build(b, captures).InvalidMoves(player)
}
