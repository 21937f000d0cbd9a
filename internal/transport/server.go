package transport

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/meridion/gomoku-engine/internal/board"
	"github.com/meridion/gomoku-engine/internal/engine"
	"github.com/meridion/gomoku-engine/internal/gamelog"
	"github.com/meridion/gomoku-engine/internal/position"
)

const (
	writeTimeout  = 10 * time.Second
	outboundDepth = 16
	defaultDepth  = 4
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Board state never carries credentials; any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server upgrades HTTP connections to the game WebSocket protocol. Each
// subject is handled statelessly from the request's own board/captures
// payload; inbound envelopes are handled one at a time on the
// connection's own goroutine, so a handler panic never takes down the
// listener.
type Server struct {
	Log         zerolog.Logger
	SearchLog   *gamelog.Log
	SearchDepth int
}

// NewServer returns a Server logging through log and appending completed
// searches to searchLog (may be nil to disable search logging).
func NewServer(log zerolog.Logger, searchLog *gamelog.Log, searchDepth int) *Server {
	if searchDepth <= 0 {
		searchDepth = defaultDepth
	}
	return &Server{Log: log, SearchLog: searchLog, SearchDepth: searchDepth}
}

// ServeHTTP upgrades the request to a WebSocket and runs the connection
// until the client disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	s.handleConnection(conn)
}

func (s *Server) handleConnection(conn *websocket.Conn) {
	log := s.Log.With().
		Str("remote", conn.RemoteAddr().String()).
		Str("connection_id", uuid.NewString()).
		Logger()
	log.Info().Msg("connection opened")

	send := make(chan []byte, outboundDepth)
	done := make(chan struct{})

	go s.writePump(conn, send, done, log)
	defer close(send)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Info().Err(err).Msg("connection closed")
			break
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Warn().Err(err).Msg("malformed envelope")
			continue
		}

		s.dispatch(env, send, log)
	}

	<-done
}

func (s *Server) writePump(conn *websocket.Conn, send <-chan []byte, done chan<- struct{}, log zerolog.Logger) {
	defer close(done)
	defer conn.Close()
	for msg := range send {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Warn().Err(err).Msg("write failed")
			return
		}
	}
}

// dispatch handles one envelope. A panic in a handler is recovered and
// logged so a single malformed request cannot kill the connection.
func (s *Server) dispatch(env Envelope, send chan<- []byte, log zerolog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("subject", env.Subject).Msg("handler panic recovered")
		}
	}()

	switch env.Subject {
	case SubjectCalculate:
		s.handleCalculate(env, send, log)
	case SubjectEvaluate:
		s.handleEvaluate(env, send, log)
	case SubjectInvMoves:
		s.handleInvMoves(env, send, log)
	case SubjectHotseatMove:
		s.handleHotseatMove(env, send, log)
	default:
		log.Warn().Str("subject", env.Subject).Msg("unknown subject")
	}
}

func (s *Server) send(send chan<- []byte, subject, requestID string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		s.Log.Error().Err(err).Str("subject", subject).Msg("failed to marshal response")
		return
	}
	env := Envelope{Subject: subject, RequestID: requestID, Data: payload}
	out, err := json.Marshal(env)
	if err != nil {
		s.Log.Error().Err(err).Msg("failed to marshal envelope")
		return
	}
	select {
	case send <- out:
	default:
		s.Log.Warn().Str("subject", subject).Msg("outbound queue full, dropping message")
	}
}

func (s *Server) handleCalculate(env Envelope, send chan<- []byte, log zerolog.Logger) {
	var req CalculateRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		log.Warn().Err(err).Msg("malformed calculate request")
		return
	}
	player, ok := playerFromCode(req.Player)
	if !ok {
		log.Warn().Int("player", req.Player).Msg("invalid player code")
		return
	}
	depth := req.Depth
	if depth <= 0 {
		depth = s.SearchDepth
	}

	var inMove *position.Position
	if req.InMove != nil {
		pos, ok := req.InMove.toPosition()
		if !ok {
			log.Warn().Err(engine.ErrMalformedRequest).Interface("in_move", req.InMove).Msg("invalid in_move position")
			return
		}
		inMove = &pos
	}

	b := board.FromSparse(req.Board)
	s.send(send, SubjectBoardUpdate, "", BoardUpdate{
		Board:    boardToSparse(b),
		Captures: req.Captures,
	})

	result, err := engine.Calculate(b, req.Captures, player, depth, inMove, req.IsHint)
	if err != nil {
		log.Info().Err(err).Msg("calculate rejected")
		return
	}

	s.send(send, SubjectBoardUpdate, "", BoardUpdate{
		Board:    boardToSparse(result.PostMoveBoard),
		Captures: result.PostMoveCaptures,
	})

	if s.SearchLog != nil {
		s.SearchLog.Append(gamelog.Entry{
			Board:  boardToSparse(result.PostMoveBoard),
			Player: req.Player,
			Depth:  depth,
			Score:  result.Score,
		})
	}

	moves := make([]WireMove, len(result.Moves))
	for i, m := range result.Moves {
		moves[i] = wireMoveFrom(m)
	}

	s.send(send, SubjectCalculate, env.RequestID, CalculateResponse{
		Moves:        moves,
		DepthHits:    depthHitsToSlice(result.DepthHits, depth),
		CurrentScore: result.CurrentScore,
		Score:        result.Score,
		MateIn:       result.MateIn,
	})
}

func (s *Server) handleEvaluate(env Envelope, send chan<- []byte, log zerolog.Logger) {
	var req EvaluateRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		log.Warn().Err(err).Msg("malformed evaluate request")
		return
	}
	player, ok := playerFromCode(req.Player)
	if !ok {
		log.Warn().Int("player", req.Player).Msg("invalid player code")
		return
	}

	b := board.FromSparse(req.Board)
	score, candidates := engine.Evaluate(b, req.Captures, player)

	moves := make([]EvaluateMoveEntry, len(candidates))
	for i, c := range candidates {
		moves[i] = evaluateMoveEntryFrom(c)
	}

	s.send(send, SubjectEvaluate, env.RequestID, EvaluateResponse{BoardScore: score, Moves: moves})
}

func (s *Server) handleInvMoves(env Envelope, send chan<- []byte, log zerolog.Logger) {
	var req InvMovesRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		log.Warn().Err(err).Msg("malformed inv_moves request")
		return
	}
	player, ok := playerFromCode(req.Player)
	if !ok {
		log.Warn().Int("player", req.Player).Msg("invalid player code")
		return
	}

	b := board.FromSparse(req.Board)
	positions := engine.InvalidMoves(b, [2]int{0, 0}, player)
	indices := make([]int, len(positions))
	for i, pos := range positions {
		indices[i] = pos.Index()
	}
	s.send(send, SubjectInvMoves, env.RequestID, indices)
}

func (s *Server) handleHotseatMove(env Envelope, send chan<- []byte, log zerolog.Logger) {
	var req HotseatMoveRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		log.Warn().Err(err).Msg("malformed hotseat_move request")
		return
	}
	player, ok := playerFromCode(req.Player)
	if !ok {
		log.Warn().Int("player", req.Player).Msg("invalid player code")
		return
	}
	pos, ok := req.InMove.toPosition()
	if !ok {
		log.Warn().Err(engine.ErrMalformedRequest).Interface("in_move", req.InMove).Msg("invalid in_move position")
		return
	}

	b := board.FromSparse(req.Board)
	next, captures, err := engine.HotseatMove(b, req.Captures, pos, player)
	if err != nil {
		log.Info().Err(err).Msg("rejected move")
		return
	}

	score, _ := engine.Evaluate(next, captures, player)

	s.send(send, SubjectHotseatMove, env.RequestID, HotseatMoveResponse{
		Board:    boardToSparse(next),
		Captures: captures,
		Score:    score,
	})
	s.send(send, SubjectBoardUpdate, "", BoardUpdate{
		Board:    boardToSparse(next),
		Captures: captures,
	})
}

func boardToSparse(b *board.Board) map[string]int {
	out := map[string]int{}
	b.Each(func(pos position.Position, p position.Piece) {
		if !p.IsPiece() {
			return
		}
		out[strconv.Itoa(pos.Index())] = codeFromPlayer(p)
	})
	return out
}
