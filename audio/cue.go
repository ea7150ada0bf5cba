package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Cue names a synthesized sound
type Cue int

const (
	CueTick  Cue = iota // short click, once per countdown step
	CueChime            // two-note chime on completion
	CueBuzz             // low buzz for skips and errors
)

// Stream builds a fresh streamer for the cue at volume vol in [0,1]
func (c Cue) Stream(rate beep.SampleRate, vol float64) beep.Streamer {
	switch c {
	case CueTick:
		d := 30 * time.Millisecond
		osc := NewOscillator(1200, d, WaveSquare, rate)
		return withVolume(NewEnvelope(osc, d, 2*time.Millisecond, 20*time.Millisecond, rate), vol*0.4)
	case CueChime:
		d1, d2 := 90*time.Millisecond, 260*time.Millisecond
		n1 := NewEnvelope(NewOscillator(987.77, d1, WaveSine, rate), d1, 5*time.Millisecond, 30*time.Millisecond, rate)
		n2 := NewEnvelope(NewOscillator(1318.51, d2, WaveSine, rate), d2, 5*time.Millisecond, 200*time.Millisecond, rate)
		return withVolume(beep.Seq(n1, n2), vol)
	case CueBuzz:
		d := 150 * time.Millisecond
		osc := NewOscillator(110, d, WaveSaw, rate)
		return withVolume(NewEnvelope(osc, d, 5*time.Millisecond, 60*time.Millisecond, rate), vol*0.6)
	default:
		return nil
	}
}

func (c Cue) String() string {
	switch c {
	case CueTick:
		return "tick"
	case CueChime:
		return "chime"
	case CueBuzz:
		return "buzz"
	default:
		return "unknown"
	}
}
