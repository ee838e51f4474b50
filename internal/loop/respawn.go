package loop

import "time"

// respawnEntry is a pending relocation of a captured ball.
type respawnEntry struct {
	ballID     int
	generation uint64
	due        time.Time
}

// RespawnQueue holds deferred ball respawns. Entries are keyed by ball and
// round generation so that a round reset invalidates everything queued
// before it.
type RespawnQueue struct {
	entries []respawnEntry
}

// Schedule queues ball id of the given generation to respawn at due.
func (q *RespawnQueue) Schedule(id int, generation uint64, due time.Time) {
	q.entries = append(q.entries, respawnEntry{ballID: id, generation: generation, due: due})
}

// PopDue removes every entry due at or before now and calls fn for each in
// scheduling order.
func (q *RespawnQueue) PopDue(now time.Time, fn func(id int, generation uint64)) {
	kept := q.entries[:0]
	var due []respawnEntry
	for _, e := range q.entries {
		if e.due.After(now) {
			kept = append(kept, e)
			continue
		}
		due = append(due, e)
	}
	q.entries = kept
	for _, e := range due {
		fn(e.ballID, e.generation)
	}
}

// Len returns the number of pending entries.
func (q *RespawnQueue) Len() int {
	return len(q.entries)
}
