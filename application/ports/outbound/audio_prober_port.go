package outbound

// AudioProberPort reads the playback duration of a synthesized audio file
// from its container header, not from an estimate.
type AudioProberPort interface {
	Duration(path string) (float64, error)
}
