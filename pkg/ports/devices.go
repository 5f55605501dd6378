package ports

import (
	"context"

	"github.com/aretw0/hostprep/pkg/domain"
)

// DeviceLister enumerates audio input devices without shelling out.
type DeviceLister interface {
	// ListInputDevices returns every device with at least one input channel.
	ListInputDevices(ctx context.Context) ([]domain.AudioDevice, error)
}
