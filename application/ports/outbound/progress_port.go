package outbound

// ProgressStage identifies which pipeline stage an event belongs to.
type ProgressStage string

const (
	StageSlides ProgressStage = "slides"
	StageAudio  ProgressStage = "audio"
	StageVideo  ProgressStage = "video"
)

// ProgressEvent is one unit of progress published by the pipeline. Completed
// and Total count stage-local work items; Message is human-readable.
type ProgressEvent struct {
	Stage     ProgressStage
	Completed int
	Total     int
	Message   string
}

// ProgressSinkPort decouples the pipeline from whatever surface displays
// progress. The pipeline must remain fully usable with a no-op sink.
type ProgressSinkPort interface {
	Publish(event ProgressEvent)
}
