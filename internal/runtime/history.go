package runtime

import "time"

// ring is a fixed-capacity history of state vectors backed by a single
// preallocated arena. Appending past capacity evicts the oldest entry by
// overwriting its slot; no per-sample allocation happens after construction.
type ring struct {
	arena []float64 // cap*dim, sliced per slot
	dim   int
	cap   int
	head  int // slot that the next Append writes
	count int
}

func newRing(capacity, dim int) *ring {
	return &ring{
		arena: make([]float64, capacity*dim),
		dim:   dim,
		cap:   capacity,
	}
}

// Append copies v into the next slot, evicting the oldest entry when full.
func (r *ring) Append(v []float64) {
	copy(r.arena[r.head*r.dim:(r.head+1)*r.dim], v)
	r.head = (r.head + 1) % r.cap
	if r.count < r.cap {
		r.count++
	}
}

// Len reports the number of stored entries.
func (r *ring) Len() int { return r.count }

// At returns the i-th oldest entry without copying. The slice aliases the
// arena; callers must not retain it across an Append.
func (r *ring) At(i int) []float64 {
	if i < 0 || i >= r.count {
		return nil
	}
	slot := (r.head - r.count + i + r.cap*2) % r.cap
	return r.arena[slot*r.dim : (slot+1)*r.dim]
}

// Last returns the newest entry, or nil when empty.
func (r *ring) Last() []float64 {
	if r.count == 0 {
		return nil
	}
	return r.At(r.count - 1)
}

// Window copies the n newest entries, oldest first. n greater than Len
// returns everything.
func (r *ring) Window(n int) [][]float64 {
	if n > r.count {
		n = r.count
	}
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		src := r.At(r.count - n + i)
		out[i] = append(make([]float64, 0, r.dim), src...)
	}
	return out
}

// tensionLog is a fixed-capacity append-only view over tension records. Older
// records age out silently once capacity is reached.
type tensionLog struct {
	buf   []record
	cap   int
	head  int
	count int
}

// record mirrors domain.TensionRecord but stays internal so the log can be
// reused for per-node accounting without exporting aliases.
type record struct {
	step       uint64
	ts         time.Time
	nodeID     string
	value      float64
	above      bool
	transition string
}

func newTensionLog(capacity int) *tensionLog {
	return &tensionLog{buf: make([]record, capacity), cap: capacity}
}

func (l *tensionLog) Append(rec record) {
	l.buf[l.head] = rec
	l.head = (l.head + 1) % l.cap
	if l.count < l.cap {
		l.count++
	}
}

func (l *tensionLog) Len() int { return l.count }

func (l *tensionLog) At(i int) record {
	slot := (l.head - l.count + i + l.cap*2) % l.cap
	return l.buf[slot]
}

// TailValues returns the newest n global (nodeID == "") tension values,
// oldest first. Fewer than n may be returned.
func (l *tensionLog) TailValues(n int) []float64 {
	vals := make([]float64, 0, n)
	// walk backwards collecting global records, then reverse
	for i := l.count - 1; i >= 0 && len(vals) < n; i-- {
		rec := l.At(i)
		if rec.nodeID == "" && rec.transition == "" {
			vals = append(vals, rec.value)
		}
	}
	for i, j := 0, len(vals)-1; i < j; i, j = i+1, j-1 {
		vals[i], vals[j] = vals[j], vals[i]
	}
	return vals
}
