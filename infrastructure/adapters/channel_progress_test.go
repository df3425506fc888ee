package adapters

import (
	"testing"

	"github.com/kokuren333/BiimSlideMaker/application/ports/outbound"
)

func TestChannelProgressSink_Delivers(t *testing.T) {
	events := make(chan outbound.ProgressEvent, 1)
	sink := NewChannelProgressSink(events)

	sink.Publish(outbound.ProgressEvent{Stage: outbound.StageAudio, Completed: 1, Total: 3})
	select {
	case event := <-events:
		if event.Stage != outbound.StageAudio || event.Completed != 1 {
			t.Fatalf("unexpected event %+v", event)
		}
	default:
		t.Fatal("expected the event on the channel")
	}
}

func TestChannelProgressSink_DropsWhenFull(t *testing.T) {
	events := make(chan outbound.ProgressEvent, 1)
	sink := NewChannelProgressSink(events)

	sink.Publish(outbound.ProgressEvent{Completed: 1})
	// the channel is full now; this must not block
	sink.Publish(outbound.ProgressEvent{Completed: 2})

	event := <-events
	if event.Completed != 1 {
		t.Fatalf("expected the first event kept, got %+v", event)
	}
	select {
	case extra := <-events:
		t.Fatalf("expected the second event dropped, got %+v", extra)
	default:
	}
}
