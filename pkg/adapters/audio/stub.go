//go:build !portaudio

package audio

import (
	"context"

	"github.com/aretw0/hostprep/pkg/domain"
)

// Available reports whether native enumeration was compiled in.
func Available() bool { return false }

// ListInputDevices always fails: this binary was built without PortAudio.
func (l *Lister) ListInputDevices(context.Context) ([]domain.AudioDevice, error) {
	return nil, domain.ErrNativeAudioUnavailable
}
