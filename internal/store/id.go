// ABOUTME: Wall-clock based monotonic id generator for message log entries
// ABOUTME: Guarantees strictly increasing ids under a single writer per process

package store

import (
	"strconv"
	"sync"
	"time"
)

var idMu sync.Mutex
var lastID int64

// NextMessageID returns a strictly increasing, wall-clock based identifier.
// Millisecond resolution is enough for the single-writer-per-client model;
// a counter bump covers two appends landing in the same millisecond.
func NextMessageID() string {
	idMu.Lock()
	defer idMu.Unlock()

	id := time.Now().UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return strconv.FormatInt(id, 10)
}
