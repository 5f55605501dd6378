// Package audio lists capture devices through the PortAudio library.
//
// Support is compiled in with the "portaudio" build tag, which needs the
// PortAudio headers (portaudio19-dev). Without the tag every call returns
// domain.ErrNativeAudioUnavailable and callers fall back to the listing utility.
package audio

import "github.com/aretw0/hostprep/pkg/ports"

// Lister implements ports.DeviceLister.
type Lister struct{}

var _ ports.DeviceLister = (*Lister)(nil)

// NewLister creates a device lister.
func NewLister() *Lister {
	return &Lister{}
}
