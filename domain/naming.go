package domain

import "fmt"

// File naming scheme for the shared output namespace. Every artifact path is
// derived from slide id and sequence index, so no two pipeline components
// ever target the same file.

func SlideImageName(slideID int) string {
	return fmt.Sprintf("slide_%03d.png", slideID)
}

// UnitAudioName uses a 1-based chunk ordinal on disk; sequenceIndex itself
// stays 0-based in memory.
func UnitAudioName(slideID int, sequenceIndex int) string {
	return fmt.Sprintf("chunk_%03d_%02d.wav", slideID, sequenceIndex+1)
}

func SegmentName(slideID int) string {
	return fmt.Sprintf("segment_%03d.mp4", slideID)
}
