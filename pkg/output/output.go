package output

import "github.com/ericogr/max14001pmb-reader/pkg/sensor"

// Output receives every successful reading. Publish is called concurrently
// by the channel readers of a round.
type Output interface {
	Publish(sensor.Reading) error
	Close() error
}
