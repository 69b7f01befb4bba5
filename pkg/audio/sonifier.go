// Package audio turns collision impulses into short tones
package audio

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/opd-ai/go-physbox/pkg/engine"
	"github.com/opd-ai/go-physbox/pkg/logging"
)

const (
	toneDuration = 60 * time.Millisecond
	lowPitch     = 220.0
	// impulses this many decades above the threshold get the highest pitch
	pitchDecades  = 3.0
	defaultVoices = 16
)

// Sonifier plays a tone for every impulse applied in the latest step.
// Stronger impulses are louder and higher. Streamer is safe to pull from
// the speaker goroutine while Observe runs on the simulation goroutine.
type Sonifier struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	mixer  *beep.Mixer
	logger *logging.Logger

	// lifetime identifies records added during the latest step
	lifetime   int
	minImpulse float64
	maxVoices  int
}

// NewSonifier creates a sonifier for a world whose impulse records start
// with the given lifetime
func NewSonifier(rate beep.SampleRate, lifetime int, logger *logging.Logger) *Sonifier {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &Sonifier{
		rate:       rate,
		mixer:      &beep.Mixer{},
		logger:     logger,
		lifetime:   lifetime,
		minImpulse: 1,
		maxVoices:  defaultVoices,
	}
}

// SetThreshold sets the smallest impulse magnitude that makes a sound
func (s *Sonifier) SetThreshold(min float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if min > 0 {
		s.minImpulse = min
	}
}

// SetMaxVoices limits how many tones play at once
func (s *Sonifier) SetMaxVoices(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxVoices = n
}

// Observe queues tones for records added in the latest step and returns
// how many were queued
func (s *Sonifier) Observe(records []engine.ImpulseRecord) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, r := range records {
		if r.Lifetime != s.lifetime {
			continue
		}
		mag := r.Impulse.Length()
		if !(mag >= s.minImpulse) || math.IsInf(mag, 0) {
			continue
		}
		if s.mixer.Len() >= s.maxVoices {
			s.logger.Debug(context.Background(), "dropping impulse tone", "voices", s.mixer.Len(), "magnitude", mag)
			break
		}
		tone, err := Tone(s.rate, s.strength(mag))
		if err != nil {
			s.logger.Warn(context.Background(), "impulse tone failed", "error", err.Error(), "magnitude", mag)
			continue
		}
		s.mixer.Add(tone)
		added++
	}
	return added
}

// Voices returns the number of tones still playing
func (s *Sonifier) Voices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mixer.Len()
}

// strength maps a magnitude to [0, 1] on a log scale above the threshold
func (s *Sonifier) strength(mag float64) float64 {
	x := math.Log10(mag/s.minImpulse) / pitchDecades
	return math.Max(0, math.Min(1, x))
}

// Streamer returns the mixed output for speaker.Play
func (s *Sonifier) Streamer() beep.Streamer {
	return lockedStreamer{s}
}

type lockedStreamer struct {
	s *Sonifier
}

func (l lockedStreamer) Stream(samples [][2]float64) (int, bool) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	n, _ := l.s.mixer.Stream(samples)
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (l lockedStreamer) Err() error { return nil }

// Tone builds a decaying sine for an impulse of the given strength in
// [0, 1]: two octaves of pitch and half to full volume
func Tone(rate beep.SampleRate, strength float64) (beep.Streamer, error) {
	freq := lowPitch * math.Pow(2, 2*strength)
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	n := rate.N(toneDuration)
	shaped := &decay{streamer: beep.Take(n, sine), total: n}
	return &effects.Volume{
		Streamer: shaped,
		Base:     2,
		Volume:   math.Log2(0.5 + 0.5*strength),
	}, nil
}

// decay fades a stream linearly to silence over total samples
type decay struct {
	streamer beep.Streamer
	position int
	total    int
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1 - float64(d.position)/float64(d.total)
		samples[i][0] *= vol
		samples[i][1] *= vol
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }
