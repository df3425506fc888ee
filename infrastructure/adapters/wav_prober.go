package adapters

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"

	"github.com/kokuren333/BiimSlideMaker/application/ports/outbound"
)

type wavProber struct{}

// NewWavProber reads playback durations straight from WAV container headers,
// the format the speech engine emits.
func NewWavProber() outbound.AudioProberPort {
	return &wavProber{}
}

func (w *wavProber) Duration(path string) (float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	duration, err := decoder.Duration()
	if err != nil {
		return 0, fmt.Errorf("decode wav duration of %s: %w", path, err)
	}
	return duration.Seconds(), nil
}
