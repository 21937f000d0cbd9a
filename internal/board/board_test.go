package board

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridion/gomoku-engine/internal/position"
)

func mustPos(t *testing.T, x, y int) position.Position {
	t.Helper()
	pos, ok := position.New(x, y)
	require.True(t, ok)
	return pos
}

func TestNewBoardIsEmpty(t *testing.T) {
	b := New()
	count := 0
	b.Each(func(pos position.Position, p position.Piece) {
		if p.IsPiece() {
			count++
		}
	})
	assert.Zero(t, count)
}

func TestFromSparse(t *testing.T) {
	maxPos := mustPos(t, 3, 4)
	minPos := mustPos(t, 5, 6)

	b := FromSparse(map[string]int{
		strconv.Itoa(maxPos.Index()): 0,
		strconv.Itoa(minPos.Index()): 1,
		"99999":                      0,
		"not-a-number":               1,
	})
	assert.Equal(t, position.Max, b.Get(maxPos))
	assert.Equal(t, position.Min, b.Get(minPos))
}

func TestDiff(t *testing.T) {
	a := New()
	b := New()
	pos := mustPos(t, 10, 10)
	b.SetMove(pos, position.Max, nil)
	diff := Diff(a, b)
	require.Len(t, diff, 1)
	assert.Equal(t, pos, diff[0])
}

// TestCaptureApplication checks that bracketing two enemy stones between a
// new stone and an existing friendly one removes the bracketed pair.
func TestCaptureApplication(t *testing.T) {
	b := New()
	maxStone := mustPos(t, 5, 5)
	minA := mustPos(t, 6, 5)
	minB := mustPos(t, 7, 5)
	target := mustPos(t, 8, 5)

	b.cells[maxStone.Index()] = position.Max
	b.cells[minA.Index()] = position.Min
	b.cells[minB.Index()] = position.Min

	captured := b.SetMove(target, position.Max, nil)

	assert.Equal(t, 1, captured)
	assert.Equal(t, position.Empty, b.Get(minA))
	assert.Equal(t, position.Empty, b.Get(minB))
	assert.Equal(t, position.Max, b.Get(target))
}

func TestSetMoveOnOccupiedCellPanics(t *testing.T) {
	b := New()
	pos := mustPos(t, 1, 1)
	b.SetMove(pos, position.Max, nil)
	assert.Panics(t, func() {
		b.SetMove(pos, position.Min, nil)
	})
}

func TestCapturesMaskRayOrder(t *testing.T) {
	b := New()
	maxStone := mustPos(t, 5, 5)
	minA := mustPos(t, 6, 5)
	minB := mustPos(t, 7, 5)
	target := mustPos(t, 8, 5)

	b.cells[maxStone.Index()] = position.Max
	b.cells[minA.Index()] = position.Min
	b.cells[minB.Index()] = position.Min

	mask := b.CapturesMask(target, position.Max)
	assert.Equal(t, uint8(1<<0), mask)
}
