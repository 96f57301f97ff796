package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// ToneFormat is the format of synthesized cues.
var ToneFormat = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

// TonePattern describes a pulsed sine cue.
type TonePattern struct {
	Frequency float64
	Pulse     time.Duration
	Period    time.Duration
	Count     int
}

// DefaultTone lasts ten seconds, one short beep per second, matching the
// alert window of the default countdown.
func DefaultTone() TonePattern {
	return TonePattern{
		Frequency: 880,
		Pulse:     200 * time.Millisecond,
		Period:    time.Second,
		Count:     10,
	}
}

// Synthesize renders pattern into a buffer.
func Synthesize(format beep.Format, pattern TonePattern) *beep.Buffer {
	if pattern.Period < pattern.Pulse {
		pattern.Period = pattern.Pulse
	}
	pulseSamples := format.SampleRate.N(pattern.Pulse)
	periodSamples := format.SampleRate.N(pattern.Period)
	total := periodSamples * pattern.Count
	buffer := beep.NewBuffer(format)
	if total <= 0 {
		return buffer
	}

	position := 0
	step := 2 * math.Pi * pattern.Frequency / float64(format.SampleRate)
	generator := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			offset := position % periodSamples
			value := 0.0
			if offset < pulseSamples {
				value = 0.5 * math.Sin(step*float64(offset))
			}
			samples[i][0] = value
			samples[i][1] = value
			position++
		}
		return len(samples), true
	})

	buffer.Append(beep.Take(total, generator))
	return buffer
}
