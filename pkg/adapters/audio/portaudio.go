//go:build portaudio

package audio

import (
	"context"
	"fmt"

	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/gordonklaus/portaudio"
)

// Available reports whether native enumeration was compiled in.
func Available() bool { return true }

// ListInputDevices returns every device with at least one input channel.
func (l *Lister) ListInputDevices(ctx context.Context) ([]domain.AudioDevice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	// No default input is not an error: the device list is still useful
	defaultName := ""
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		defaultName = def.Name
	}

	var devices []domain.AudioDevice
	for _, info := range infos {
		if info.MaxInputChannels <= 0 {
			continue
		}
		d := domain.AudioDevice{
			Index:             info.Index,
			Name:              info.Name,
			MaxInputChannels:  info.MaxInputChannels,
			DefaultSampleRate: info.DefaultSampleRate,
			IsDefault:         info.Name == defaultName,
		}
		if info.HostApi != nil {
			d.HostAPI = info.HostApi.Name
		}
		devices = append(devices, d)
	}
	return devices, nil
}
