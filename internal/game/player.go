package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/iburimskiy/radial-dial/internal/config"
)

// dbPerDoubling converts decibels to a power of two of amplitude.
var dbPerDoubling = 20 * math.Log10(2)

// chain is the playback pipeline:
// decoder -> resampler (speed) -> volume -> level tap -> ctrl.
type chain struct {
	resampler *beep.Resampler
	volume    *effects.Volume
	tap       *levelTap
	ctrl      *beep.Ctrl
}

func newChain(src beep.Streamer, quality int, speed, volumeDB, silentDB float64) *chain {
	c := &chain{}
	c.resampler = beep.ResampleRatio(quality, speed, src)
	c.volume = &effects.Volume{Streamer: c.resampler, Base: 2}
	c.tap = newLevelTap(c.volume, config.VisualRingSize)
	c.ctrl = &beep.Ctrl{Streamer: c.tap}
	c.setVolume(volumeDB, silentDB)
	return c
}

func (c *chain) setVolume(db, silentDB float64) {
	c.volume.Volume = db / dbPerDoubling
	c.volume.Silent = db <= silentDB
}

// Player plays one audio file at a time. Volume and speed can be changed
// while playing. All methods are called from the frame loop; the speaker
// goroutine is synchronized through speaker.Lock.
type Player struct {
	logger  *slog.Logger
	quality int

	currentFile *os.File
	streamer    beep.StreamSeekCloser
	format      beep.Format
	chain       *chain
	duration    time.Duration
	name        string

	volumeDB float64
	silentDB float64
	speed    float64

	paused   bool
	initDone bool
	ended    atomic.Bool
}

// NewPlayer returns a player with unity gain and normal speed. Volumes at or
// below silentDB mute the output.
func NewPlayer(logger *slog.Logger, quality int, silentDB float64) *Player {
	return &Player{
		logger:   logger,
		quality:  quality,
		silentDB: silentDB,
		speed:    1,
	}
}

// SetVolumeDB sets the output gain in decibels.
func (p *Player) SetVolumeDB(db float64) {
	p.volumeDB = db
	if p.chain == nil {
		return
	}
	speaker.Lock()
	p.chain.setVolume(db, p.silentDB)
	speaker.Unlock()
}

// SetSpeed sets the playback rate; 1 is normal speed.
func (p *Player) SetSpeed(ratio float64) {
	if ratio <= 0 || math.IsNaN(ratio) {
		return
	}
	p.speed = ratio
	if p.chain == nil {
		return
	}
	speaker.Lock()
	p.chain.resampler.SetRatio(ratio)
	speaker.Unlock()
}

func (p *Player) TogglePause() {
	if p.chain == nil {
		return
	}
	speaker.Lock()
	p.paused = !p.paused
	p.chain.ctrl.Paused = p.paused
	speaker.Unlock()
}

// Loaded reports whether a file is playing or paused.
func (p *Player) Loaded() bool { return p.chain != nil }

func (p *Player) Paused() bool { return p.paused }

// Name returns the base name of the loaded file.
func (p *Player) Name() string { return p.name }

func (p *Player) Duration() time.Duration { return p.duration }

// Position returns the playback position in the source file.
func (p *Player) Position() time.Duration {
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos)
}

// Samples returns up to n recently played samples.
func (p *Player) Samples(n int) [][2]float64 {
	if p.chain == nil {
		return nil
	}
	return p.chain.tap.snapshot(n)
}

// Poll releases the file once playback reached its end. It reports whether
// that happened during this call.
func (p *Player) Poll() bool {
	if !p.ended.CompareAndSwap(true, false) {
		return false
	}
	p.logger.Info("playback finished", "file", p.name)
	p.release()
	return true
}

func decode(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav":
		return wav.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	default:
		return nil, beep.Format{}, errors.New("unsupported file type: " + ext)
	}
}

// Load stops the current file, decodes path and starts playing it with the
// current volume and speed.
func (p *Player) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	streamer, format, err := decode(path, f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	bufferSize := format.SampleRate.N(time.Second / 20)
	if !p.initDone {
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return err
		}
		p.initDone = true
	} else if p.format.SampleRate != format.SampleRate {
		// Re-init when sample rate changes
		speaker.Lock()
		speaker.Clear()
		speaker.Unlock()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return err
		}
	} else {
		speaker.Lock()
		speaker.Clear()
		speaker.Unlock()
	}
	p.release()

	c := newChain(streamer, p.quality, p.speed, p.volumeDB, p.silentDB)
	p.currentFile = f
	p.streamer = streamer
	p.format = format
	p.chain = c
	p.paused = false
	p.name = filepath.Base(path)
	p.duration = format.SampleRate.D(streamer.Len())
	p.ended.Store(false)

	speaker.Play(beep.Seq(c.ctrl, beep.Callback(func() {
		p.ended.Store(true)
	})))

	p.logger.Info("playing", "file", p.name, "duration", p.duration, "sample_rate", int(format.SampleRate))
	return nil
}

// release closes the current file. The speaker must no longer be streaming
// from it.
func (p *Player) release() {
	if p.streamer != nil {
		_ = p.streamer.Close()
		p.streamer = nil
	}
	if p.currentFile != nil {
		_ = p.currentFile.Close()
		p.currentFile = nil
	}
	p.chain = nil
	p.duration = 0
	p.paused = false
}

// Close stops playback and releases the file.
func (p *Player) Close() {
	if p.initDone {
		speaker.Lock()
		speaker.Clear()
		speaker.Unlock()
	}
	p.release()
}
