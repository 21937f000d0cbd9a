// Package heuristic implements the incremental structural evaluator: the
// Line model, per-cell line index, full-board scoring, virtual-move
// evaluation, double-free-three legality and ordered move generation.
package heuristic

import (
	"github.com/meridion/gomoku-engine/internal/board"
	"github.com/meridion/gomoku-engine/internal/position"
)

// Captures counter indices.
const (
	MaxCaptures = 0
	MinCaptures = 1
)

// Heuristic is a view over an immutable (Board, Captures) pair plus the
// Line table it derives. Heuristics are never mutated after construction;
// Derive produces an independent successor.
type Heuristic struct {
	board    *board.Board
	captures [2]int

	lines    map[int]*Line
	linePos  map[int][4]int
	linesIdx int

	score *float64
}

// Board returns the board this heuristic was built over.
func (h *Heuristic) Board() *board.Board { return h.board }

// Captures returns the [maxCaptures, minCaptures] pair.
func (h *Heuristic) Captures() [2]int { return h.captures }

// Build allocates a Heuristic from scratch over board and captures.
func Build(b *board.Board, captures [2]int) *Heuristic {
	h := &Heuristic{
		board:    b,
		captures: captures,
		lines:    make(map[int]*Line),
		linePos:  make(map[int][4]int),
	}
	b.Each(func(pos position.Position, p position.Piece) {
		if !p.IsPiece() {
			return
		}
		for axis := 0; axis < 4; axis++ {
			if h.lineAt(pos, axis) != 0 {
				continue
			}
			h.evaluateAxis(pos, axis)
		}
	})
	return h
}

// Derive produces a new Heuristic cheaply: only cells touched by the diff
// between h.board and newBoard are recomputed.
func (h *Heuristic) Derive(newBoard *board.Board, newCaptures [2]int) *Heuristic {
	h2 := &Heuristic{
		board:    newBoard,
		captures: newCaptures,
		lines:    cloneLines(h.lines),
		linePos:  cloneLinePos(h.linePos),
		linesIdx: h.linesIdx,
	}

	diff := board.Diff(h.board, newBoard)

	toDelete := map[int]bool{}
	for _, pos := range diff {
		for axis := 0; axis < 4; axis++ {
			dirs := axisDirs[axis]
			if n0, ok := pos.Relocate(dirs[0][0], dirs[0][1]); ok {
				if id := h2.lineAt(n0, axis); id != 0 {
					toDelete[id] = true
				}
			}
			if n1, ok := pos.Relocate(dirs[1][0], dirs[1][1]); ok {
				if id := h2.lineAt(n1, axis); id != 0 {
					toDelete[id] = true
				}
			}
		}
	}
	for id := range toDelete {
		delete(h2.lines, id)
	}

	for _, pos := range diff {
		for axis := 0; axis < 4; axis++ {
			dirs := axisDirs[axis]
			n0, ok0 := pos.Relocate(dirs[0][0], dirs[0][1])
			n1, ok1 := pos.Relocate(dirs[1][0], dirs[1][1])

			var produced *Line
			if ok0 && newBoard.Get(n0).IsPiece() && h2.lineAt(n0, axis) == 0 {
				id, overwritten := h2.evaluateAxis(n0, axis)
				for _, oid := range overwritten {
					delete(h2.lines, oid)
				}
				if id != 0 {
					produced = h2.lines[id]
				}
			}

			if ok1 && newBoard.Get(n1).IsPiece() {
				skip := produced != nil && onLine(produced, n1, axis)
				if !skip && h2.lineAt(n1, axis) == 0 {
					_, overwritten := h2.evaluateAxis(n1, axis)
					for _, oid := range overwritten {
						delete(h2.lines, oid)
					}
				}
			}
		}
	}

	return h2
}

func cloneLines(src map[int]*Line) map[int]*Line {
	dst := make(map[int]*Line, len(src))
	for id, line := range src {
		dst[id] = line
	}
	return dst
}

func cloneLinePos(src map[int][4]int) map[int][4]int {
	dst := make(map[int][4]int, len(src))
	for idx, arr := range src {
		dst[idx] = arr
	}
	return dst
}

// lineAt returns the Line id covering pos along axis, or 0 if the cell is
// isolated in that axis or its former line was deleted (stale entries in
// linePos resolve to 0 once their id no longer exists in lines).
func (h *Heuristic) lineAt(pos position.Position, axis int) int {
	arr, ok := h.linePos[pos.Index()]
	if !ok {
		return 0
	}
	id := arr[axis]
	if id == 0 {
		return 0
	}
	if _, ok := h.lines[id]; !ok {
		return 0
	}
	return id
}

// getLine resolves the Line covering pos along axis, or nil.
func (h *Heuristic) getLine(pos position.Position, axis int) *Line {
	id := h.lineAt(pos, axis)
	if id == 0 {
		return nil
	}
	return h.lines[id]
}

// walk walks outward from pos along dir, collecting the run of same-color
// stones. Returns the farthest same-color cell, the count of cells added
// beyond pos, and whether the stopper was blocking (wall or opponent) as
// opposed to open (empty).
func (h *Heuristic) walk(pos position.Position, dir [2]int, player position.Piece) (end position.Position, count int, blocked bool) {
	cur := pos
	for {
		next, ok := cur.Relocate(dir[0], dir[1])
		if !ok {
			return cur, count, true
		}
		p := h.board.Get(next)
		if p != player {
			if p.IsEmpty() {
				return cur, count, false
			}
			return cur, count, true
		}
		count++
		cur = next
	}
}

// evaluateAxis runs evaluate_position for a single axis at pos, creating a
// Line (and indexing it into linePos) unless the cell is a singleton in
// that axis. Returns the new line's id (0 if none created) and any ids
// that were overwritten while indexing the line's span.
func (h *Heuristic) evaluateAxis(pos position.Position, axis int) (id int, overwritten []int) {
	dirs := axisDirs[axis]
	player := h.board.Get(pos)

	startEnd, startLen, startBlocked := h.walk(pos, dirs[0], player)
	endEnd, endLen, endBlocked := h.walk(pos, dirs[1], player)
	length := 1 + startLen + endLen
	if length == 1 {
		return 0, nil
	}

	h.linesIdx++
	id = h.linesIdx

	var blockPos uint8
	if startBlocked {
		blockPos |= 0x2
	}
	if endBlocked {
		blockPos |= 0x1
	}

	line := newLine(id, player, startEnd, endEnd, axis, length, blockPos)
	h.lines[id] = line

	overwritten = h.populateLinePos(startEnd, endEnd, dirs[1], axis, id)
	return id, overwritten
}

// populateLinePos walks from start to end (inclusive) along dirTowardEnd,
// setting linePos[cell][axis] = id and collecting any previously-distinct
// ids encountered along the way.
func (h *Heuristic) populateLinePos(start, end position.Position, dirTowardEnd [2]int, axis, id int) []int {
	var overwritten []int
	cur := start
	for {
		arr := h.linePos[cur.Index()]
		if arr[axis] != 0 && arr[axis] != id {
			overwritten = append(overwritten, arr[axis])
		}
		arr[axis] = id
		h.linePos[cur.Index()] = arr

		if cur == end {
			break
		}
		next, ok := cur.Relocate(dirTowardEnd[0], dirTowardEnd[1])
		if !ok {
			break
		}
		cur = next
	}
	return overwritten
}

// onLine reports whether pos lies within line's [Start, End] span along
// its axis.
func onLine(line *Line, pos position.Position, axis int) bool {
	dir := axisDirs[axis][1]
	cur := line.Start
	for {
		if cur == pos {
			return true
		}
		if cur == line.End {
			return false
		}
		next, ok := cur.Relocate(dir[0], dir[1])
		if !ok {
			return false
		}
		cur = next
	}
}
