package heuristic

import (
	"sort"

	"github.com/meridion/gomoku-engine/internal/position"
)

// Candidate is a legal move scored for search ordering.
type Candidate struct {
	Pos          position.Position
	Score        float64
	CaptureCount int
	CaptureMap   uint8
}

// CandidateMoves returns every legal empty cell adjacent to a stone,
// scored via EvaluateVirtualMove and ordered best-first for player:
// moves that capture sort first (by capture count), then by score
// (descending for Max, ascending for Min), with ties broken by cell
// index for determinism.
func (h *Heuristic) CandidateMoves(player position.Piece) []Candidate {
	var candidates []Candidate
	h.board.Each(func(pos position.Position, p position.Piece) {
		if p.IsPiece() {
			return
		}
		if !h.hasOccupiedNeighbor(pos) {
			return
		}
		if !h.IsLegal(pos, player) {
			return
		}
		ev := h.EvaluateVirtualMove(pos, player)
		candidates = append(candidates, Candidate{
			Pos:          pos,
			Score:        ev.Score,
			CaptureCount: ev.CaptureCount,
			CaptureMap:   ev.CaptureMap,
		})
	})

	maximizing := player == position.Max
	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		if ci.CaptureCount != cj.CaptureCount {
			return ci.CaptureCount > cj.CaptureCount
		}
		if ci.Score != cj.Score {
			if maximizing {
				return ci.Score > cj.Score
			}
			return ci.Score < cj.Score
		}
		return ci.Pos.Index() < cj.Pos.Index()
	})

	return candidates
}

// hasOccupiedNeighbor reports whether any of the 8 surrounding cells
// holds a stone.
func (h *Heuristic) hasOccupiedNeighbor(pos position.Position) bool {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n, ok := pos.Relocate(dx, dy)
			if ok && h.board.Get(n).IsPiece() {
				return true
			}
		}
	}
	return false
}
