package playback

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrUnknownSpeed is returned for a preset name that is not in the table
var ErrUnknownSpeed = errors.New("unknown speed preset")

// Speed names a tick delay preset
type Speed string

const (
	Normal Speed = "Normal"
	Fast   Speed = "Fast"
	Medium Speed = "Medium"
	Slow   Speed = "Slow"
)

// Speeds lists the presets in menu order
var Speeds = []Speed{Normal, Fast, Medium, Slow}

var speedDelays = map[Speed]time.Duration{
	Normal: 150 * time.Millisecond,
	Fast:   20 * time.Millisecond,
	Medium: 265 * time.Millisecond,
	Slow:   500 * time.Millisecond,
}

// Delay returns the minimum pause between two ticks at this speed
func (s Speed) Delay() time.Duration {
	if d, ok := speedDelays[s]; ok {
		return d
	}
	return speedDelays[Normal]
}

// ParseSpeed resolves a preset name, ignoring case
func ParseSpeed(name string) (Speed, error) {
	for _, s := range Speeds {
		if strings.EqualFold(string(s), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownSpeed, "[ParseSpeed] %q", name)
}
