package adapters

import "github.com/kokuren333/BiimSlideMaker/application/ports/outbound"

// channelProgressSink publishes progress events onto a channel for whatever
// front end is listening. Events are dropped rather than blocking the
// pipeline when the consumer falls behind.
type channelProgressSink struct {
	events chan<- outbound.ProgressEvent
}

func NewChannelProgressSink(events chan<- outbound.ProgressEvent) outbound.ProgressSinkPort {
	return &channelProgressSink{events: events}
}

func (c *channelProgressSink) Publish(event outbound.ProgressEvent) {
	select {
	case c.events <- event:
	default:
	}
}

type noopProgressSink struct{}

// NewNoopProgressSink keeps the pipeline headless when nothing subscribes.
func NewNoopProgressSink() outbound.ProgressSinkPort {
	return &noopProgressSink{}
}

func (noopProgressSink) Publish(outbound.ProgressEvent) {}
