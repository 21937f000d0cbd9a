// Package gamelog appends a JSON-lines record of every completed search to
// disk, for later analysis of how the engine played.
package gamelog

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Entry is one completed calculate search.
type Entry struct {
	Board  map[string]int `json:"board"`
	Player int            `json:"player"`
	Depth  int            `json:"depth"`
	Score  float64        `json:"score"`
}

// Log appends Entry records as JSON lines to a file. Safe for concurrent
// use across connections.
type Log struct {
	mu   sync.Mutex
	file *os.File
	log  zerolog.Logger
}

// Open appends to (or creates) the file at path.
func Open(path string, log zerolog.Logger) (*Log, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &Log{file: f, log: log}, nil
}

// Append writes one entry, logging but not returning marshal/write errors:
// a broken search log must never fail the search itself.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(e)
	if err != nil {
		l.log.Error().Err(err).Msg("gamelog: failed to marshal entry")
		return
	}
	data = append(data, '\n')
	if _, err := l.file.Write(data); err != nil {
		l.log.Error().Err(err).Msg("gamelog: failed to write entry")
	}
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
