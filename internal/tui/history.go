package tui

import (
	"math"
	"time"

	"github.com/dm/pcpulse/internal/model"
)

const defaultHistoryCap = 60

// historyPoint is one sample's worth of plotted values. CPUTemp is NaN
// when the sample had no CPU temperature.
type historyPoint struct {
	Timestamp time.Time
	CPUUsage  float64
	CPUTemp   float64
}

// History is a fixed-size ring buffer of recent samples, kept by the view
// only for drawing sparklines. When full, new pushes overwrite the oldest.
type History struct {
	buf  []historyPoint
	head int // index of the next write position
	size int // number of valid entries
}

// NewHistory creates a History with the given capacity.
// If capacity <= 0, 60 is used.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = defaultHistoryCap
	}
	return &History{
		buf: make([]historyPoint, capacity),
	}
}

// Push records the plotted values of a snapshot.
func (h *History) Push(s model.Snapshot) {
	temp := math.NaN()
	if v, ok := hottest(s.CPU.Temperatures); ok {
		temp = v
	}
	h.buf[h.head] = historyPoint{
		Timestamp: s.Timestamp,
		CPUUsage:  s.CPU.OverallUsage,
		CPUTemp:   temp,
	}
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Len returns the number of valid entries in the history.
func (h *History) Len() int {
	return h.size
}

// CPUUsage returns overall CPU usage, oldest first.
func (h *History) CPUUsage() []float64 {
	return h.values(func(p historyPoint) (float64, bool) { return p.CPUUsage, true })
}

// CPUTemperature returns the hottest CPU reading of each sample, oldest
// first. Samples without a reading are skipped.
func (h *History) CPUTemperature() []float64 {
	return h.values(func(p historyPoint) (float64, bool) { return p.CPUTemp, !math.IsNaN(p.CPUTemp) })
}

func (h *History) values(pick func(historyPoint) (float64, bool)) []float64 {
	out := make([]float64, 0, h.size)
	// oldest entry sits at (head - size + cap) % cap
	start := (h.head - h.size + len(h.buf)) % len(h.buf)
	for i := 0; i < h.size; i++ {
		if v, ok := pick(h.buf[(start+i)%len(h.buf)]); ok {
			out = append(out, v)
		}
	}
	return out
}

// hottest returns the highest present reading.
func hottest(t model.Temperatures) (float64, bool) {
	var (
		best  float64
		found bool
	)
	for _, v := range t {
		if v != nil && (!found || *v > best) {
			best, found = *v, true
		}
	}
	return best, found
}
