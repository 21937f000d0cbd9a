// Package transport exposes the engine over a WebSocket/JSON protocol.
// Every subject is stateless and per-request: the caller supplies the
// board and capture counts on each message, and the server never retains
// game state across requests on a connection.
package transport

import (
	"encoding/json"

	"github.com/meridion/gomoku-engine/internal/engine"
	"github.com/meridion/gomoku-engine/internal/heuristic"
	"github.com/meridion/gomoku-engine/internal/position"
	"github.com/meridion/gomoku-engine/internal/search"
)

// Subjects recognized in an inbound envelope.
const (
	SubjectCalculate   = "calculate"
	SubjectEvaluate    = "evaluate"
	SubjectInvMoves    = "inv_moves"
	SubjectHotseatMove = "hotseat_move"
	SubjectBoardUpdate = "boardUpdate"
)

// Envelope wraps every message exchanged over the socket. RequestID, when
// present on a request, is echoed back on its response so a client can
// match them up.
type Envelope struct {
	Subject   string          `json:"subject"`
	RequestID string          `json:"requestId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// playerFromCode mirrors board.FromSparse's 0=Max, 1=Min convention.
func playerFromCode(code int) (position.Piece, bool) {
	switch code {
	case 0:
		return position.Max, true
	case 1:
		return position.Min, true
	default:
		return position.Empty, false
	}
}

func codeFromPlayer(p position.Piece) int {
	if p == position.Max {
		return 0
	}
	return 1
}

// WirePosition is the {x,y} shape in_move is carried as on the wire.
type WirePosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (w WirePosition) toPosition() (position.Position, bool) {
	return position.New(w.X, w.Y)
}

// CalculateRequest asks the engine to search for player's best move at
// depth plies, optionally pre-applying in_move first. is_hint selects
// whether the root search runs from player directly (hinting) or from
// player's opponent (player just moved, engine replies).
type CalculateRequest struct {
	Board    map[string]int `json:"board"`
	Depth    int            `json:"depth"`
	InMove   *WirePosition  `json:"in_move,omitempty"`
	Player   int            `json:"player"`
	Captures [2]int         `json:"captures"`
	IsHint   bool           `json:"is_hint,omitempty"`
}

// WireMove is one root-level candidate as reported to the client.
type WireMove struct {
	Position int     `json:"position"`
	Score    float64 `json:"score"`
	OrderIdx int     `json:"order_idx"`
	CutoffAt int     `json:"cutoff_at"`
}

func wireMoveFrom(m search.Move) WireMove {
	return WireMove{
		Position: m.Pos.Index(),
		Score:    engine.SanitizeScore(m.Score),
		OrderIdx: m.OrderIdx,
		CutoffAt: m.CutoffAt,
	}
}

// CalculateResponse reports every root-level move explored, the search's
// depth-node counts, the position's static score before searching, the
// root search score, and (for a forced win or loss) the ply count to it.
type CalculateResponse struct {
	Moves        []WireMove `json:"moves"`
	DepthHits    []int      `json:"depth_hits,omitempty"`
	CurrentScore float64    `json:"current_score"`
	Score        float64    `json:"score"`
	MateIn       *int       `json:"mate_in"`
}

// depthHitsToSlice converts the remaining-depth-indexed map produced by a
// search into the dense array the wire format expects.
func depthHitsToSlice(hits map[int]int, depth int) []int {
	if depth < 0 {
		depth = 0
	}
	out := make([]int, depth+1)
	for d, count := range hits {
		if d >= 0 && d < len(out) {
			out[d] = count
		}
	}
	return out
}

// EvaluateRequest asks for the heuristic score and ordered candidate moves
// of the current position; it does not mutate anything.
type EvaluateRequest struct {
	Board    map[string]int `json:"board"`
	Player   int            `json:"player"`
	Captures [2]int         `json:"captures"`
}

// EvaluateMoveEntry is one candidate in the evaluate response. It encodes
// on the wire as the tuple [position, [score, capture_map]].
type EvaluateMoveEntry struct {
	Position   int
	Score      float64
	CaptureMap uint8
}

func (e EvaluateMoveEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{
		e.Position,
		[2]interface{}{e.Score, e.CaptureMap},
	})
}

func evaluateMoveEntryFrom(c heuristic.Candidate) EvaluateMoveEntry {
	return EvaluateMoveEntry{
		Position:   c.Pos.Index(),
		Score:      engine.SanitizeScore(c.Score),
		CaptureMap: c.CaptureMap,
	}
}

// EvaluateResponse reports the sanitized heuristic score of the requested
// position and its ordered candidate moves.
type EvaluateResponse struct {
	BoardScore float64             `json:"board_score"`
	Moves      []EvaluateMoveEntry `json:"moves"`
}

// InvMovesRequest asks which cells are illegal for player to play due to
// the double-free-three rule. Legality depends only on the board, not
// capture counts.
type InvMovesRequest struct {
	Board  map[string]int `json:"board"`
	Player int            `json:"player"`
}

// HotseatMoveRequest applies a human move to the supplied board.
type HotseatMoveRequest struct {
	Board    map[string]int `json:"board"`
	Player   int            `json:"player"`
	InMove   WirePosition   `json:"in_move"`
	Captures [2]int         `json:"captures"`
}

// HotseatMoveResponse carries the resulting board, captures and sanitized
// score after the move was applied.
type HotseatMoveResponse struct {
	Board    map[string]int `json:"board"`
	Captures [2]int         `json:"captures"`
	Score    float64        `json:"score"`
}

// BoardUpdate is pushed to the client after any move is applied, carrying
// the full resulting board and capture counts.
type BoardUpdate struct {
	Board    map[string]int `json:"board"`
	Captures [2]int         `json:"captures"`
}
