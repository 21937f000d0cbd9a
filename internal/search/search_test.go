package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridion/gomoku-engine/internal/board"
	"github.com/meridion/gomoku-engine/internal/heuristic"
	"github.com/meridion/gomoku-engine/internal/position"
)

func mustPos(t *testing.T, x, y int) position.Position {
	t.Helper()
	pos, ok := position.New(x, y)
	require.True(t, ok)
	return pos
}

func TestSearchTakesObviousCapture(t *testing.T) {
	b := board.New()
	b.SetMove(mustPos(t, 5, 5), position.Max, nil)
	b.SetMove(mustPos(t, 6, 5), position.Min, nil)
	b.SetMove(mustPos(t, 7, 5), position.Min, nil)

	h := heuristic.Build(b, [2]int{0, 0})
	result := Search(h, position.Max, 1)

	require.NotNil(t, result.Best)
	assert.Equal(t, mustPos(t, 8, 5), result.Best.Pos)
	assert.Equal(t, 1, result.Best.CaptureCount)
}

// TestSearchOpensAtCenter matches the opening scenario: on an empty board
// the generator offers no candidates, so the root injects the forced
// (10,10) first move.
func TestSearchOpensAtCenter(t *testing.T) {
	h := heuristic.Build(board.New(), [2]int{0, 0})
	result := Search(h, position.Max, 2)

	require.NotNil(t, result.Best)
	assert.Equal(t, mustPos(t, 10, 10), result.Best.Pos)
	assert.Nil(t, result.MateIn)
}

func TestSearchDepthHitsRecorded(t *testing.T) {
	b := board.New()
	b.SetMove(mustPos(t, 9, 9), position.Max, nil)
	h := heuristic.Build(b, [2]int{0, 0})
	result := Search(h, position.Min, 2)
	assert.NotZero(t, result.DepthHits[2])
}

// TestSearchCutsOffAlreadyWonPosition checks the terminal test fires on
// |h| = infinity even when depth > 0, not only at depth == 0: with a
// five-in-a-row already on the board the root must return immediately
// rather than continuing to search through a decided position.
func TestSearchCutsOffAlreadyWonPosition(t *testing.T) {
	b := board.New()
	for x := 5; x <= 9; x++ {
		b.SetMove(mustPos(t, x, 9), position.Max, nil)
	}
	h := heuristic.Build(b, [2]int{0, 0})

	result := Search(h, position.Min, 4)

	assert.True(t, math.IsInf(result.Score, 1))
	require.NotNil(t, result.MateIn)
	assert.Equal(t, 0, *result.MateIn)
	// Only the root node and, at most, its immediate children should ever
	// have been entered; a position already decided must not be explored
	// four plies deep.
	assert.Zero(t, result.DepthHits[0])
}

// TestSearchFiveCompletingMoveIsMateInZero matches the five-completing
// move scenario: Max can finish a five-in-a-row in one move, so the
// returned mate distance is 0 plies from the root.
func TestSearchFiveCompletingMoveIsMateInZero(t *testing.T) {
	b := board.New()
	for _, x := range []int{7, 8, 9, 10} {
		b.SetMove(mustPos(t, x, 10), position.Max, nil)
	}
	b.SetMove(mustPos(t, 5, 5), position.Min, nil)
	b.SetMove(mustPos(t, 6, 6), position.Min, nil)

	h := heuristic.Build(b, [2]int{0, 0})
	result := Search(h, position.Max, 4)

	require.NotNil(t, result.Best)
	assert.True(t, math.IsInf(result.Score, 1))
	require.NotNil(t, result.MateIn)
	assert.Equal(t, 0, *result.MateIn)
	assert.True(t, result.Best.Pos == mustPos(t, 6, 10) || result.Best.Pos == mustPos(t, 11, 10))
}

// TestCaptureRaceOverrideExtendsOnePly checks that a side sitting at 4
// captures and facing an immediate heuristic loss gets one extra ply
// instead of conceding on the spot.
func TestCaptureRaceOverrideExtendsOnePly(t *testing.T) {
	b := board.New()
	for _, x := range []int{5, 6, 7, 8, 9} {
		b.SetMove(mustPos(t, x, 9), position.Min, nil)
	}
	b.SetMove(mustPos(t, 3, 3), position.Max, nil)
	b.SetMove(mustPos(t, 4, 3), position.Min, nil)
	b.SetMove(mustPos(t, 5, 3), position.Min, nil)

	h := heuristic.Build(b, [2]int{4, 0})
	require.True(t, captureRaceOverride(h, position.Max))

	result := Search(h, position.Max, 0)
	require.NotNil(t, result.Best)
	assert.Equal(t, mustPos(t, 6, 3), result.Best.Pos)
	assert.True(t, math.IsInf(result.Score, 1))
}

// TestMateInReflectsPrincipalVariationLength checks pvLength, the
// principal-variation length that Search turns into mate_in
// (k = max(0, pv.length-1)), against a hand-built two-move chain,
// independent of the main search loop.
func TestMateInReflectsPrincipalVariationLength(t *testing.T) {
	leaf := &Move{Pos: mustPos(t, 1, 1)}
	root := &Move{Pos: mustPos(t, 0, 0), Child: leaf}

	assert.Equal(t, 2, pvLength(root))
	assert.Equal(t, 1, pvLength(leaf))
	assert.Equal(t, 0, pvLength(nil))
}
