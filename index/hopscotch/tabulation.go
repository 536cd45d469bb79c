package hopscotch

import "math/rand"

// Tabulation is an 8-way tabulation hash for uint64 keys: each key byte
// indexes its own 256-entry table of random words and the results are XORed.
// 3-independent, and fast enough that the table lookups dominate.
type Tabulation struct {
	t [8][256]uint64
}

// NewTabulation fills the tables from the given seed; equal seeds give equal
// hash functions.
func NewTabulation(seed int64) *Tabulation {
	rng := rand.New(rand.NewSource(seed))
	h := &Tabulation{}
	for i := range h.t {
		for j := range h.t[i] {
			h.t[i][j] = rng.Uint64()
		}
	}
	return h
}

func (h *Tabulation) Hash(x uint64) uint64 {
	return h.t[0][byte(x)] ^
		h.t[1][byte(x>>8)] ^
		h.t[2][byte(x>>16)] ^
		h.t[3][byte(x>>24)] ^
		h.t[4][byte(x>>32)] ^
		h.t[5][byte(x>>40)] ^
		h.t[6][byte(x>>48)] ^
		h.t[7][byte(x>>56)]
}

// defaultHash is shared by containers built without an explicit hasher.
var defaultHash = NewTabulation(0x7ab5)
