package history

// ring is a fixed-capacity FIFO of turns. Appending beyond capacity evicts
// the oldest turn in O(1) without reslicing.
type ring struct {
	buf   []Turn
	start int
	count int
}

func newRing(capacity int) *ring {
	if capacity <= 0 {
		capacity = DefaultMaxTurns
	}
	return &ring{buf: make([]Turn, capacity)}
}

func (r *ring) append(t Turn) {
	if r.count < len(r.buf) {
		r.buf[(r.start+r.count)%len(r.buf)] = t
		r.count++
		return
	}
	r.buf[r.start] = t
	r.start = (r.start + 1) % len(r.buf)
}

func (r *ring) len() int {
	return r.count
}

// slice returns the turns oldest first as a fresh slice.
func (r *ring) slice() []Turn {
	out := make([]Turn, 0, r.count)
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(r.start+i)%len(r.buf)])
	}
	return out
}

// fill seeds the ring from an ordered slice, keeping only the newest turns
// when the input exceeds capacity.
func (r *ring) fill(turns []Turn) {
	if len(turns) > len(r.buf) {
		turns = turns[len(turns)-len(r.buf):]
	}
	r.start = 0
	r.count = 0
	for _, t := range turns {
		r.append(t)
	}
}
