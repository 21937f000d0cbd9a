package heuristic

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridion/gomoku-engine/internal/board"
	"github.com/meridion/gomoku-engine/internal/position"
)

func mustPos(t *testing.T, x, y int) position.Position {
	t.Helper()
	pos, ok := position.New(x, y)
	require.True(t, ok)
	return pos
}

func TestBuildCreatesOpenPairLine(t *testing.T) {
	b := board.New()
	a := mustPos(t, 5, 5)
	c := mustPos(t, 6, 5)
	b.SetMove(a, position.Max, nil)
	b.SetMove(c, position.Max, nil)

	h := Build(b, [2]int{0, 0})
	line := h.getLine(a, AxisHorizontal)
	require.NotNil(t, line)
	assert.Equal(t, 2, line.Length)
	assert.Equal(t, uint8(0), line.BlockPos)
	assert.Equal(t, b0Scores[2], line.Score)
}

func TestDeriveMatchesFullRebuild(t *testing.T) {
	moves := []struct {
		x, y   int
		player position.Piece
	}{
		{9, 9, position.Max},
		{9, 10, position.Min},
		{10, 9, position.Max},
		{8, 10, position.Min},
		{11, 9, position.Max},
		{7, 10, position.Min},
	}

	incremental := Build(board.New(), [2]int{0, 0})
	current := board.New()
	for _, mv := range moves {
		pos := mustPos(t, mv.x, mv.y)
		next := current.Clone()
		next.SetMove(pos, mv.player, nil)
		incremental = incremental.Derive(next, incremental.Captures())
		current = next
	}

	rebuilt := Build(current, [2]int{0, 0})
	assert.InDelta(t, rebuilt.ScoreFull(), incremental.ScoreFull(), 1e-9)
}

func TestDeriveDropsStaleLinesOnCapture(t *testing.T) {
	b := board.New()
	maxStone := mustPos(t, 5, 5)
	minA := mustPos(t, 6, 5)
	minB := mustPos(t, 7, 5)
	target := mustPos(t, 8, 5)

	b.SetMove(maxStone, position.Max, nil)
	b.SetMove(minA, position.Min, nil)
	b.SetMove(minB, position.Min, nil)

	h := Build(b, [2]int{0, 0})
	require.NotNil(t, h.getLine(minA, AxisHorizontal))

	next := b.Clone()
	captured := next.SetMove(target, position.Max, nil)
	require.Equal(t, 1, captured)

	h2 := h.Derive(next, [2]int{1, 0})
	assert.Nil(t, h2.getLine(minA, AxisHorizontal))
	assert.Nil(t, h2.getLine(minB, AxisHorizontal))
}

func TestDoubleFreeThreeIsIllegal(t *testing.T) {
	b := board.New()
	b.SetMove(mustPos(t, 7, 9), position.Max, nil)
	b.SetMove(mustPos(t, 8, 9), position.Max, nil)
	b.SetMove(mustPos(t, 9, 7), position.Max, nil)
	b.SetMove(mustPos(t, 9, 8), position.Max, nil)

	h := Build(b, [2]int{0, 0})
	pos := mustPos(t, 9, 9)
	assert.False(t, h.IsLegal(pos, position.Max))
}

func TestSingleFreeThreeIsLegal(t *testing.T) {
	b := board.New()
	b.SetMove(mustPos(t, 7, 9), position.Max, nil)
	b.SetMove(mustPos(t, 8, 9), position.Max, nil)

	h := Build(b, [2]int{0, 0})
	pos := mustPos(t, 9, 9)
	assert.True(t, h.IsLegal(pos, position.Max))
}

func TestCandidateMovesOnlyAdjacentToStones(t *testing.T) {
	b := board.New()
	center := mustPos(t, 9, 9)
	b.SetMove(center, position.Max, nil)

	h := Build(b, [2]int{0, 0})
	candidates := h.CandidateMoves(position.Min)
	assert.Len(t, candidates, 8)
	for _, c := range candidates {
		assert.True(t, h.hasOccupiedNeighbor(c.Pos))
	}
}

func TestEvaluateVirtualMovePredictsCapture(t *testing.T) {
	b := board.New()
	maxStone := mustPos(t, 5, 5)
	minA := mustPos(t, 6, 5)
	minB := mustPos(t, 7, 5)
	target := mustPos(t, 8, 5)

	b.SetMove(maxStone, position.Max, nil)
	b.SetMove(minA, position.Min, nil)
	b.SetMove(minB, position.Min, nil)

	h := Build(b, [2]int{0, 0})
	ev := h.EvaluateVirtualMove(target, position.Max)
	assert.Equal(t, 1, ev.CaptureCount)
	assert.Equal(t, uint8(1<<uint(AxisHorizontal*2)), ev.CaptureMap)
}

func TestScoreFullInfiniteOnFiveCaptures(t *testing.T) {
	h := Build(board.New(), [2]int{5, 0})
	assert.True(t, math.IsInf(h.ScoreFull(), 1))

	h2 := Build(board.New(), [2]int{0, 5})
	assert.True(t, math.IsInf(h2.ScoreFull(), -1))
}

// legalCells returns every empty cell player may play on b, scanning the
// whole board rather than only cells adjacent to a stone so the randomized
// game below can still find a move on an otherwise empty board.
func legalCells(h *Heuristic, b *board.Board, player position.Piece) []position.Position {
	var out []position.Position
	for idx := 0; idx < position.CellCount; idx++ {
		pos, ok := position.FromIndex(idx)
		if !ok || b.Get(pos).IsPiece() {
			continue
		}
		if h.IsLegal(pos, player) {
			out = append(out, pos)
		}
	}
	return out
}

// TestDeriveMatchesFullRebuildOverRandomGame plays a random 40-ply legal
// game from a package-local seeded source and checks, at every ply, that
// the incrementally derived heuristic agrees exactly with one rebuilt from
// scratch off the resulting board.
func TestDeriveMatchesFullRebuildOverRandomGame(t *testing.T) {
	rng := rand.New(rand.NewSource(20260730))

	b := board.New()
	captures := [2]int{0, 0}
	h := Build(b, captures)
	player := position.Max

	const plies = 40
	for ply := 0; ply < plies; ply++ {
		candidates := legalCells(h, b, player)
		if len(candidates) == 0 {
			break
		}
		pos := candidates[rng.Intn(len(candidates))]

		mask := b.CapturesMask(pos, player)
		next := b.Clone()
		captured := next.SetMove(pos, player, &mask)

		nextCaptures := captures
		nextCaptures[sideIndexForTest(player)] += captured

		h = h.Derive(next, nextCaptures)
		b, captures = next, nextCaptures

		rebuilt := Build(b, captures)
		rebuiltScore, incrementalScore := rebuilt.ScoreFull(), h.ScoreFull()
		if math.IsInf(rebuiltScore, 0) || math.IsInf(incrementalScore, 0) {
			require.Equal(t, rebuiltScore, incrementalScore, "ply %d diverged", ply)
			break
		}
		require.InDeltaf(t, rebuiltScore, incrementalScore, 1e-9, "ply %d diverged", ply)

		player = player.Opposite()
	}
}

func sideIndexForTest(player position.Piece) int {
	if player == position.Max {
		return MaxCaptures
	}
	return MinCaptures
}
