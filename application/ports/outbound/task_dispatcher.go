package outbound

// TaskDispatcher submits work to a bounded pool of executors.
type TaskDispatcher interface {
	Submit(task func()) error
}
