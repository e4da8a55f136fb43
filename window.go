package tempscope

// Sample is one accepted reading. Index starts at 1 and is never reused.
type Sample struct {
	Index uint64
	Value float64
}

// WindowCapacity is the number of samples kept on screen
const WindowCapacity = 100

// Window is a fixed-capacity ring of the most recent samples
type Window struct {
	samples []Sample
	head    int // slot of the oldest sample
	count   int
	nextIdx uint64
}

// NewWindow creates an empty window holding at most capacity samples
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		panic("tempscope: window capacity must be positive")
	}
	return &Window{
		samples: make([]Sample, capacity),
		nextIdx: 1,
	}
}

// Append stores value under the next index, evicting the oldest sample when full
func (w *Window) Append(value float64) Sample {
	s := Sample{Index: w.nextIdx, Value: value}
	w.nextIdx++

	if w.count < len(w.samples) {
		w.samples[(w.head+w.count)%len(w.samples)] = s
		w.count++
		return s
	}

	// Full: overwrite the oldest slot and advance head
	w.samples[w.head] = s
	w.head = (w.head + 1) % len(w.samples)
	return s
}

// Len returns the number of samples held
func (w *Window) Len() int {
	return w.count
}

// Cap returns the window capacity
func (w *Window) Cap() int {
	return len(w.samples)
}

// Snapshot copies the held samples, oldest first
func (w *Window) Snapshot() []Sample {
	out := make([]Sample, w.count)
	for i := range out {
		out[i] = w.samples[(w.head+i)%len(w.samples)]
	}
	return out
}

// Values copies the held values, oldest first
func (w *Window) Values() []float64 {
	out := make([]float64, w.count)
	for i := range out {
		out[i] = w.samples[(w.head+i)%len(w.samples)].Value
	}
	return out
}

// Average is the arithmetic mean of the held values, 0 when empty
func (w *Window) Average() float64 {
	if w.count == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < w.count; i++ {
		sum += w.samples[(w.head+i)%len(w.samples)].Value
	}
	return sum / float64(w.count)
}

// Last returns the newest sample
func (w *Window) Last() (Sample, bool) {
	if w.count == 0 {
		return Sample{}, false
	}
	return w.samples[(w.head+w.count-1)%len(w.samples)], true
}

// Range returns the smallest and largest held value
func (w *Window) Range() (min, max float64, ok bool) {
	if w.count == 0 {
		return 0, 0, false
	}
	min, max = w.samples[w.head].Value, w.samples[w.head].Value
	for i := 1; i < w.count; i++ {
		v := w.samples[(w.head+i)%len(w.samples)].Value
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, true
}
