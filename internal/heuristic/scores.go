package heuristic

import (
	"math"

	"github.com/meridion/gomoku-engine/internal/position"
)

// Line scores are looked up from these arrays indexed by min(length, 5).
// Index 5 always reads +Inf: length >= 5 is a completed five-in-a-row.
var (
	b0Scores = [6]float64{1, 2, 4, 16, 64, math.Inf(1)}
	// A length-2 half-open line scores 0: a pair blocked on one side can
	// always be captured, so it carries no structural value of its own.
	b1Scores = [6]float64{1, 2, 0, 8, 16, math.Inf(1)}
	// Only a five wins when both ends are blocked.
	b2Scores = [6]float64{0, 0, 0, 0, 0, math.Inf(1)}

	captureScores = [6]float64{0, 8, 16, 32, 64, math.Inf(1)}
)

func clampLen(length int) int {
	if length > 5 {
		return 5
	}
	if length < 0 {
		return 0
	}
	return length
}

// lineMagnitude returns the unsigned magnitude of a line of the given
// blockCount (0 = open both ends, 1/2 = half-open, 3 = sealed) and length.
func lineMagnitude(blockCount uint8, length int) float64 {
	idx := clampLen(length)
	switch blockCount {
	case 0:
		return b0Scores[idx]
	case 1, 2:
		return b1Scores[idx]
	case 3:
		return b2Scores[idx]
	default:
		return math.Inf(1)
	}
}

// lineScore returns the signed score of a line: Max lines carry +magnitude,
// Min lines -magnitude.
func lineScore(blockCount uint8, length int, player position.Piece) float64 {
	mag := lineMagnitude(blockCount, length)
	return mag * player.Sign()
}

// captureScore returns the unsigned magnitude of a captures count, clamped
// to 5. Five captures is an immediate win, hence +Inf.
func captureScore(count int) float64 {
	idx := clampLen(count)
	return captureScores[idx]
}
