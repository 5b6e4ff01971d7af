package tui

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/sirupsen/logrus"
)

// Beeper signals a rejected action.
type Beeper interface {
	Beep()
}

const (
	sampleRate = beep.SampleRate(44100)
	beepPitch  = 880
	beepLength = 50 * time.Millisecond
)

// Sound plays a short tone through the system speaker. When the speaker
// cannot be opened every Beep is a no-op.
type Sound struct {
	enabled bool
	log     logrus.FieldLogger
}

// NewSound opens the speaker. Failure is logged and leaves the editor silent.
func NewSound(log logrus.FieldLogger) *Sound {
	s := &Sound{log: log}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.WithError(err).Warn("Audio initialization failed, continuing without sound")
		return s
	}
	s.enabled = true
	return s
}

func (s *Sound) Beep() {
	if !s.enabled {
		return
	}
	sine, err := generators.SineTone(sampleRate, beepPitch)
	if err != nil {
		s.log.WithError(err).Debug("Tone generation failed")
		return
	}
	speaker.Play(beep.Take(sampleRate.N(beepLength), sine))
}

// Close releases the speaker.
func (s *Sound) Close() {
	if s.enabled {
		speaker.Close()
		s.enabled = false
	}
}
