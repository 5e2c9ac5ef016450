package game

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// levelTap wraps a beep.Streamer and records the last N samples into a ring
// buffer so the level ring can be drawn from recently played audio. Stream
// runs on the speaker goroutine; snapshot and levels on the frame loop.
type levelTap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	mu        sync.RWMutex
}

func newLevelTap(src beep.Streamer, ringSize int) *levelTap {
	return &levelTap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *levelTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.mu.Unlock()
	}
	return n, ok
}

func (t *levelTap) Err() error { return t.Source.Err() }

// snapshot returns up to the last n stereo samples, most recent last.
func (t *levelTap) snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	out := make([][2]float64, n)
	idx := t.nextIndex - n
	if idx < 0 {
		idx += len(t.buffer)
	}
	for i := range out {
		out[i] = t.buffer[idx]
		idx++
		if idx >= len(t.buffer) {
			idx = 0
		}
	}
	return out
}

// levelMeter turns tap snapshots into smoothed per-band magnitudes in [0,1].
type levelMeter struct {
	bands     []float64
	smoothing float64
}

func newLevelMeter(n int, smoothing float64) *levelMeter {
	return &levelMeter{bands: make([]float64, n), smoothing: smoothing}
}

// update folds samples into the bands. With no samples the bands decay.
func (m *levelMeter) update(samples [][2]float64) {
	nBands := len(m.bands)
	if len(samples) == 0 {
		for i := range m.bands {
			m.bands[i] *= m.smoothing
		}
		return
	}

	segmentSize := max(1, len(samples)/nBands)
	for i := 0; i < nBands; i++ {
		start := i * segmentSize
		end := start + segmentSize
		if start >= len(samples) {
			break
		}
		if end > len(samples) {
			end = len(samples)
		}

		var sumSquares float64
		for s := start; s < end; s++ {
			mono := (samples[s][0] + samples[s][1]) * 0.5
			sumSquares += mono * mono
		}

		rms := math.Sqrt(sumSquares / float64(end-start))
		mag := clamp01(math.Pow(rms, 0.3))
		m.bands[i] = m.smoothing*m.bands[i] + (1-m.smoothing)*mag
	}
}

// peak returns the largest band.
func (m *levelMeter) peak() float64 {
	p := 0.0
	for _, v := range m.bands {
		p = math.Max(p, v)
	}
	return p
}
