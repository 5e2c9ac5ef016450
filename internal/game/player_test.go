package game

import (
	"math"
	"testing"

	"github.com/faiface/beep"
)

// constStreamer emits n samples of value v on both channels.
type constStreamer struct {
	v float64
	n int
}

func (s *constStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.n <= 0 {
		return 0, false
	}
	n := min(len(samples), s.n)
	for i := 0; i < n; i++ {
		samples[i] = [2]float64{s.v, s.v}
	}
	s.n -= n
	return n, true
}

func (s *constStreamer) Err() error { return nil }

func TestLevelTapKeepsMostRecentSamples(t *testing.T) {
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{float64(i), -float64(i)}
		}
		return len(samples), true
	})
	tap := newLevelTap(src, 4)
	buf := make([][2]float64, 6)
	tap.Stream(buf)

	got := tap.snapshot(3)
	want := [][2]float64{{3, -3}, {4, -4}, {5, -5}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snapshot = %v, want %v", got, want)
		}
	}
	if n := len(tap.snapshot(10)); n != 4 {
		t.Fatalf("snapshot is capped by the ring, got %d", n)
	}
}

func TestLevelMeterRisesAndDecays(t *testing.T) {
	m := newLevelMeter(4, 0.5)
	loud := make([][2]float64, 64)
	for i := range loud {
		loud[i] = [2]float64{1, 1}
	}
	m.update(loud)
	for i, v := range m.bands {
		if math.Abs(v-0.5) > 1e-9 {
			t.Fatalf("band %d = %v, want 0.5 after one full-scale update", i, v)
		}
	}
	m.update(nil)
	if p := m.peak(); math.Abs(p-0.25) > 1e-9 {
		t.Fatalf("silence should decay the bands, peak = %v", p)
	}
}

func TestChainVolume(t *testing.T) {
	tests := []struct {
		name string
		db   float64
		want float64
	}{
		{name: "unity", db: 0, want: 0.5},
		{name: "minus six", db: -dbPerDoubling, want: 0.25},
		{name: "silent at floor", db: -40, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newChain(&constStreamer{v: 0.5, n: 4096}, 1, 1, tt.db, -40)
			buf := make([][2]float64, 512)
			if n, _ := c.ctrl.Stream(buf); n == 0 {
				t.Fatal("chain produced nothing")
			}
			// skip the resampler's warm-up
			got := buf[len(buf)/2][0]
			if math.Abs(got-tt.want) > 1e-6 {
				t.Fatalf("sample = %v, want %v", got, tt.want)
			}
			if tail := c.tap.snapshot(1)[0][0]; math.Abs(tail-tt.want) > 1e-6 {
				t.Fatalf("tap saw %v, want %v", tail, tt.want)
			}
		})
	}
}

func TestChainPausedIsSilent(t *testing.T) {
	c := newChain(&constStreamer{v: 0.5, n: 4096}, 1, 1, 0, -40)
	c.ctrl.Paused = true
	buf := make([][2]float64, 16)
	c.ctrl.Stream(buf)
	for _, s := range buf {
		if s != [2]float64{} {
			t.Fatalf("paused chain produced %v", s)
		}
	}
}
