package tinue

import (
	"math"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

const entrySize = 16

const (
	minTableSizePowerOf2 = 16
	maxTableSizePowerOf2 = 28
)

// 16 bytes (entrySize)
type TableEntry struct {
	hash  uint64
	value NodeValue
	depth uint8
	flag  uint8
}

func (t TableEntry) valid() bool {
	// a table flag is 1, 2, or 3.
	return t.flag != 0
}

// TranspositionTable caches alpha-beta results by position hash. It is owned
// by one Solver and is not safe for concurrent use; the counters are atomic
// so they can be read from another goroutine while a search runs.
type TranspositionTable struct {
	table        []TableEntry
	created      atomic.Uint64
	lookups      atomic.Uint64
	hits         atomic.Uint64
	sizePowerOf2 int
	sizeMask     uint64
	// Two positions sharing the same bucket. Full-hash collisions are not
	// detected.
	t2collisions atomic.Uint64
}

func (t *TranspositionTable) lookup(zval uint64) (TableEntry, bool) {
	t.lookups.Add(1)
	idx := zval & t.sizeMask
	entry := t.table[idx]
	if entry.hash != zval {
		if entry.valid() {
			t.t2collisions.Add(1)
		}
		return TableEntry{}, false
	}
	if !entry.valid() {
		return TableEntry{}, false
	}
	t.hits.Add(1)
	return entry, true
}

func (t *TranspositionTable) store(zval uint64, tentry TableEntry) {
	idx := zval & t.sizeMask
	tentry.hash = zval
	// just overwrite whatever is there for now.
	t.table[idx] = tentry
	t.created.Add(1)
}

// Reset sizes the table to a fraction of system memory, rounded down to a
// power of two, and clears it.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	t.sizePowerOf2 = int(math.Log2(desiredNElems))
	if t.sizePowerOf2 < minTableSizePowerOf2 {
		t.sizePowerOf2 = minTableSizePowerOf2
	}
	if t.sizePowerOf2 > maxTableSizePowerOf2 {
		t.sizePowerOf2 = maxTableSizePowerOf2
	}

	numElems := 1 << t.sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	reset := false
	if t.table != nil && len(t.table) == numElems {
		reset = true
		clear(t.table)
	} else {
		t.table = make([]TableEntry, numElems)
	}

	log.Debug().Int("num-elems", numElems).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Bool("reset", reset).
		Msg("transposition-table-size")

	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
}

// Stats returns the number of stores, lookups, hits and bucket collisions
// since the last Reset.
func (t *TranspositionTable) Stats() (created, lookups, hits, t2collisions uint64) {
	return t.created.Load(), t.lookups.Load(), t.hits.Load(), t.t2collisions.Load()
}
