package tak

import (
	"github.com/cespare/xxhash"
	"lukechampine.com/frand"
)

const bignum = 1<<63 - 2

// maxStones is the largest number of stones that can be on any board.
const maxStones = 2 * (50 + 2)

// Zobrist generates position hashes. Stacks are arbitrarily tall, so instead
// of a table entry per (square, piece) pair each stack is hashed with xxhash
// and mixed with a per-square salt. The board hash is the XOR of all stack
// keys, which lets Position update it incrementally.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	squareSalts [MaxSize * MaxSize]uint64
	blackToMove uint64
	opening     [2]uint64
}

var defaultZobrist = NewZobrist()

func NewZobrist() *Zobrist {
	z := &Zobrist{}
	for i := range z.squareSalts {
		z.squareSalts[i] = frand.Uint64n(bignum) + 1
	}
	z.blackToMove = frand.Uint64n(bignum) + 1
	for i := range z.opening {
		z.opening[i] = frand.Uint64n(bignum) + 1
	}
	return z
}

// https://stackoverflow.com/a/12996028/1737333
func hashUint64(x uint64) uint64 {
	x = (x ^ (x >> 30)) * uint64(0xbf58476d1ce4e5b9)
	x = (x ^ (x >> 27)) * uint64(0x94d049bb133111eb)
	x = x ^ (x >> 31)
	return x
}

func (z *Zobrist) stackKey(sq Square, stack []Piece) uint64 {
	if len(stack) == 0 {
		return 0
	}
	var buf [maxStones]byte
	for i, pc := range stack {
		buf[i] = byte(pc)
	}
	return hashUint64(xxhash.Sum64(buf[:len(stack)]) ^ z.squareSalts[sq])
}

func (z *Zobrist) turnKey(toMove Color, plies int) uint64 {
	key := uint64(0)
	if toMove == Black {
		key ^= z.blackToMove
	}
	// The opening plies place the opponent's stones, so they are different
	// positions from the same board later on.
	if plies < 2 {
		key ^= z.opening[plies]
	}
	return key
}

// Hash computes the hash of a position from scratch.
func (z *Zobrist) Hash(p *Position) uint64 {
	key := z.turnKey(p.toMove, p.plies)
	for i, st := range p.stacks {
		key ^= z.stackKey(Square(i), st)
	}
	return key
}
