package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// ErrNoSpeaker indicates the cue has no audio output attached.
var ErrNoSpeaker = errors.New("audio output unavailable")

// Output is the playback device. The speaker package satisfies it through
// OpenSpeaker; tests use an in-memory mixer.
type Output interface {
	Play(streamer beep.Streamer)
	Lock()
	Unlock()
}

type speakerOutput struct{}

// OpenSpeaker initializes the system speaker for the given format.
func OpenSpeaker(format beep.Format) (Output, error) {
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return speakerOutput{}, nil
}

func (speakerOutput) Play(streamer beep.Streamer) { speaker.Play(streamer) }
func (speakerOutput) Lock()                       { speaker.Lock() }
func (speakerOutput) Unlock()                     { speaker.Unlock() }

// Cue plays the near-expiry alert. Halting pauses playback in place; a
// rewinding halt also moves the play position back to the start.
type Cue struct {
	mu     sync.Mutex
	output Output
	buffer *beep.Buffer
	volume float64
	stream beep.StreamSeeker
	ctrl   *beep.Ctrl
	done   *atomic.Bool
}

// NewCue creates a cue over a decoded buffer. Volume is linear in [0, 1].
func NewCue(buffer *beep.Buffer, output Output, volume float64) *Cue {
	return &Cue{
		output: output,
		buffer: buffer,
		volume: clampVolume(volume),
	}
}

// Play starts the cue, or resumes it from where it was halted.
func (cue *Cue) Play() error {
	cue.mu.Lock()
	defer cue.mu.Unlock()

	if cue.output == nil {
		return ErrNoSpeaker
	}
	if cue.buffer == nil || cue.buffer.Len() == 0 {
		return fmt.Errorf("play cue: empty buffer")
	}

	if cue.ctrl != nil && !cue.done.Load() {
		cue.output.Lock()
		cue.ctrl.Paused = false
		cue.output.Unlock()
		return nil
	}

	done := new(atomic.Bool)
	cue.stream = cue.buffer.Streamer(0, cue.buffer.Len())
	volume := &effects.Volume{
		Streamer: cue.stream,
		Base:     2,
		Volume:   math.Log2(math.Max(cue.volume, 1e-3)),
		Silent:   cue.volume <= 0,
	}
	cue.ctrl = &beep.Ctrl{Streamer: beep.Seq(volume, beep.Callback(func() {
		done.Store(true)
	}))}
	cue.done = done
	cue.output.Play(cue.ctrl)
	return nil
}

// Halt pauses the cue. It is safe to call when nothing is playing.
func (cue *Cue) Halt(rewind bool) {
	cue.mu.Lock()
	defer cue.mu.Unlock()

	if cue.ctrl == nil || cue.output == nil {
		return
	}
	cue.output.Lock()
	cue.ctrl.Paused = true
	if rewind {
		_ = cue.stream.Seek(0)
	}
	cue.output.Unlock()
}

// Position returns the current play position in samples.
func (cue *Cue) Position() int {
	cue.mu.Lock()
	defer cue.mu.Unlock()
	if cue.stream == nil {
		return 0
	}
	cue.output.Lock()
	defer cue.output.Unlock()
	return cue.stream.Position()
}

// Playing reports whether the cue is audible.
func (cue *Cue) Playing() bool {
	cue.mu.Lock()
	defer cue.mu.Unlock()
	if cue.ctrl == nil || cue.done.Load() {
		return false
	}
	cue.output.Lock()
	defer cue.output.Unlock()
	return !cue.ctrl.Paused
}

// SetVolume changes the level used from the next fresh playback.
func (cue *Cue) SetVolume(volume float64) {
	cue.mu.Lock()
	defer cue.mu.Unlock()
	cue.volume = clampVolume(volume)
}

// LoadSound decodes a WAV or MP3 file into memory.
func LoadSound(path string) (*beep.Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sound: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(file)
	case ".mp3":
		streamer, format, err = mp3.Decode(file)
	default:
		_ = file.Close()
		return nil, fmt.Errorf("unsupported sound format %q", filepath.Ext(path))
	}
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("decode sound %s: %w", filepath.Base(path), err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

func clampVolume(volume float64) float64 {
	if volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}
