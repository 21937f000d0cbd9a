// Package search implements fixed-depth minimax with alpha-beta pruning
// over the structural heuristic, including the capture-race extension and
// depth-entry bookkeeping used to report forced mates.
package search

import (
	"math"

	"github.com/meridion/gomoku-engine/internal/heuristic"
	"github.com/meridion/gomoku-engine/internal/position"
)

// center is the forced candidate when no move has been generated yet: the
// opening move on an empty board.
var center = position.Position{X: 10, Y: 10}

// Move is one ply of a search line: the chosen position, the capture mask
// applied to reach it, captures after the move, its rank in the
// generator's ordering, the cutoff rank it triggered (-1 if it never cut
// the search off), the score through this move, the leaf evaluation at the
// end of its variation (depth-score), the depth that leaf landed at
// (depth-hit), and the next ply of the variation (nil at the leaf).
type Move struct {
	Pos           position.Position
	CaptureMap    uint8
	CaptureCount  int
	CapturesAfter [2]int
	OrderIdx      int
	CutoffAt      int
	Score         float64
	DepthScore    float64
	DepthHit      int
	Child         *Move
}

// Result is the outcome of a fixed-depth search from a given state.
type Result struct {
	// Best is nil only when the root position is itself terminal (already
	// won/lost, or depth 0). A side to move with no candidate and an
	// occupied center makes Search panic instead.
	Best *Move
	// Moves lists every root-level candidate explored, in generator
	// order, each carrying its own order index and cutoff rank.
	Moves []Move
	// Score is signed: positive favors Max, negative favors Min.
	Score float64
	// DepthHits counts how many times each ply depth was entered,
	// indexed by remaining depth at entry.
	DepthHits map[int]int
	// MateIn is non-nil when Score is +-Inf, holding the ply count to
	// the forced win/loss along the principal variation.
	MateIn *int
}

// sideIndex maps a player to its slot in a Heuristic's captures pair.
func sideIndex(player position.Piece) int {
	if player == position.Max {
		return heuristic.MaxCaptures
	}
	return heuristic.MinCaptures
}

func isMaximizing(player position.Piece) bool {
	return player == position.Max
}

// Search runs fixed-depth alpha-beta minimax starting from h with player
// to move, exploring depth plies (plus any capture-race extension).
func Search(h *heuristic.Heuristic, player position.Piece, depth int) Result {
	depthHits := map[int]int{}
	score, best, moves := alphaBeta(h, player, depth, math.Inf(-1), math.Inf(1), false, depthHits)

	result := Result{Score: score, Best: best, Moves: moves, DepthHits: depthHits}
	if math.IsInf(score, 0) {
		mateIn := pvLength(best)
		if mateIn > 0 {
			mateIn--
		}
		result.MateIn = &mateIn
	}
	return result
}

// pvLength counts the plies from m to the end of its Child chain.
func pvLength(m *Move) int {
	n := 0
	for m != nil {
		n++
		m = m.Child
	}
	return n
}

// alphaBeta explores one node: h is the position to move from, player is
// to move, depth is the remaining plies. extended marks that the
// capture-race override has already fired once along this branch,
// preventing runaway extension chains. Returns the node's score, its best
// child move (nil at a terminal node) and the full list of moves explored
// at this node (nil at a terminal node).
func alphaBeta(h *heuristic.Heuristic, player position.Piece, depth int, alpha, beta float64, extended bool, depthHits map[int]int) (score float64, best *Move, moves []Move) {
	depthHits[depth]++

	leafScore := h.ScoreFull()
	if depth == 0 || math.IsInf(leafScore, 0) {
		if !extended && captureRaceOverride(h, player) {
			depth = 1
			extended = true
		} else {
			return leafScore, nil, nil
		}
	}

	candidates := h.CandidateMoves(player)
	if len(candidates) == 0 {
		if h.Board().Get(center).IsEmpty() {
			candidates = []heuristic.Candidate{{Pos: center}}
		} else {
			panic("search: no candidate moves and board center is occupied")
		}
	}

	maximizing := isMaximizing(player)
	opponent := player.Opposite()

	var bestScore float64
	if maximizing {
		bestScore = math.Inf(-1)
	} else {
		bestScore = math.Inf(1)
	}

	moves = make([]Move, 0, len(candidates))

	for i, candidate := range candidates {
		// The heuristic's own capture-map bit order is for move-ordering
		// only; the board's capture mask is the one SetMove applies and
		// the one recorded on the Move.
		mask := h.Board().CapturesMask(candidate.Pos, player)
		childBoard := h.Board().Clone()
		appliedCaptures := childBoard.SetMove(candidate.Pos, player, &mask)

		childCaptures := h.Captures()
		childCaptures[sideIndex(player)] += appliedCaptures

		childHeuristic := h.Derive(childBoard, childCaptures)

		childScore, childBest, _ := alphaBeta(childHeuristic, opponent, depth-1, alpha, beta, extended, depthHits)

		depthScore, depthHit := childScore, depth-1
		var child *Move
		if childBest != nil {
			depthScore = childBest.DepthScore
			depthHit = childBest.DepthHit
			child = childBest
		}

		moves = append(moves, Move{
			Pos:           candidate.Pos,
			CaptureMap:    mask,
			CaptureCount:  appliedCaptures,
			CapturesAfter: childCaptures,
			OrderIdx:      i,
			CutoffAt:      -1,
			Score:         childScore,
			DepthScore:    depthScore,
			DepthHit:      depthHit,
			Child:         child,
		})

		if (maximizing && (childScore > bestScore || i == 0)) || (!maximizing && (childScore < bestScore || i == 0)) {
			bestScore = childScore
			best = &moves[len(moves)-1]
		}
		if maximizing && bestScore > alpha {
			alpha = bestScore
		}
		if !maximizing && bestScore < beta {
			beta = bestScore
		}

		if beta <= alpha {
			moves[len(moves)-1].CutoffAt = i
			break
		}
	}

	return bestScore, best, moves
}

// captureRaceOverride reports whether player, sitting at 4 captures and
// facing an immediate heuristic loss, should get one extra ply to try to
// complete a fifth capture before the search concedes.
func captureRaceOverride(h *heuristic.Heuristic, player position.Piece) bool {
	if h.Captures()[sideIndex(player)] != 4 {
		return false
	}
	score := h.ScoreFull()
	if player == position.Max {
		return math.IsInf(score, -1)
	}
	return math.IsInf(score, 1)
}
