package guide

// HistoryCapacity is the number of guide cycles the controller keeps.
const HistoryCapacity = 200

// Sample is the record of one guide cycle.
type Sample struct {
	// Timestamp is in seconds since the first sample, attributed to the
	// middle of the interval that produced the measurement.
	Timestamp float64
	// Raw is the measured pointing error.
	Raw float64
	// Corrected is the error the axis would show had no correction ever
	// been issued.
	Corrected float64
	// Control is the correction issued for this cycle.
	Control float64
}

// History is a fixed capacity ring of samples. Index 0 is the newest sample;
// once full, pushing evicts the oldest.
type History struct {
	buf  []Sample
	head int
	n    int
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]Sample, capacity)}
}

func (h *History) Len() int { return h.n }
func (h *History) Cap() int { return len(h.buf) }

// Push inserts s as the newest sample.
func (h *History) Push(s Sample) {
	h.head--
	if h.head < 0 {
		h.head = len(h.buf) - 1
	}
	h.buf[h.head] = s
	if h.n < len(h.buf) {
		h.n++
	}
}

// At returns the i-th newest sample. It panics if i is out of range.
func (h *History) At(i int) Sample {
	return *h.ref(i)
}

func (h *History) ref(i int) *Sample {
	if i < 0 || i >= h.n {
		panic("guide: history index out of range")
	}
	return &h.buf[(h.head+i)%len(h.buf)]
}

// Samples copies the history out, oldest first.
func (h *History) Samples() []Sample {
	out := make([]Sample, h.n)
	for i := 0; i < h.n; i++ {
		out[i] = h.At(h.n - 1 - i)
	}
	return out
}

func (h *History) Clear() {
	h.head = 0
	h.n = 0
}
