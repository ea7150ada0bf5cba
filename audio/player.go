package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"
)

// SampleRate is the speaker output rate
const SampleRate = beep.SampleRate(48000)

// Player mixes cues into the speaker
//
// Architecture:
//   - One beep.Mixer is played for the lifetime of the player
//   - Cues are appended to the mixer under the speaker lock
//   - Without a usable output device the player runs silent; Play still counts cues
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	live   bool
	volume float64
	played atomic.Uint64
	logger zerolog.Logger
}

// NewPlayer opens the speaker when enabled. Speaker failures fall back to silent mode
func NewPlayer(enabled bool, logger zerolog.Logger) *Player {
	p := &Player{mixer: &beep.Mixer{}, volume: 1, logger: logger.With().Str("component", "audio").Logger()}
	if !enabled {
		return p
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		p.logger.Warn().Err(err).Msg("speaker unavailable, continuing silent")
		return p
	}
	speaker.Play(p.mixer)
	p.live = true
	return p
}

// Silent reports whether cues are discarded
func (p *Player) Silent() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.live
}

// SetVolume sets the gain applied to cues started afterwards, clamped to [0,1]
func (p *Player) SetVolume(vol float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = max(0, min(vol, 1))
}

// Play starts cue without blocking
func (p *Player) Play(cue Cue) {
	p.played.Add(1)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.live {
		return
	}
	s := cue.Stream(SampleRate, p.volume)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Played returns the number of Play calls, silent ones included
func (p *Player) Played() uint64 {
	return p.played.Load()
}

// Close stops playback. Idempotent
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.live {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.live = false
}
