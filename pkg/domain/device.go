package domain

import "fmt"

// AudioDevice describes one audio input device found on the host.
type AudioDevice struct {
	Index             int     `json:"index"`
	Name              string  `json:"name"`
	HostAPI           string  `json:"host_api,omitempty"`
	MaxInputChannels  int     `json:"max_input_channels"`
	DefaultSampleRate float64 `json:"default_sample_rate"`
	IsDefault         bool    `json:"is_default,omitempty"`
}

// String formats the device the way the listing utility prints a card line.
func (d AudioDevice) String() string {
	marker := " "
	if d.IsDefault {
		marker = "*"
	}
	return fmt.Sprintf("%s %2d %s (%d in, %.0f Hz)", marker, d.Index, d.Name, d.MaxInputChannels, d.DefaultSampleRate)
}
