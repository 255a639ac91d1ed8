package sensor

import (
	"path"

	"github.com/ericogr/max14001pmb-reader/pkg/config"
)

const (
	rawAttr  = "in_voltage0_raw"
	meanAttr = "in_voltage0_mean_raw"
)

// BuildChannels returns the four monitored sources: the raw and the
// mean-filtered code of the voltage device followed by the same pair of
// the current device.
func BuildChannels(cfg config.Config) []ChannelSpec {
	return []ChannelSpec{
		{Kind: Voltage, Path: path.Join(cfg.VoltageDevice, rawAttr)},
		{Kind: Voltage, Path: path.Join(cfg.VoltageDevice, meanAttr)},
		{Kind: Current, Path: path.Join(cfg.CurrentDevice, rawAttr)},
		{Kind: Current, Path: path.Join(cfg.CurrentDevice, meanAttr)},
	}
}
