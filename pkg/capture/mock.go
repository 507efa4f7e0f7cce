package capture

import "gocv.io/x/gocv"

// MockSource feeds a fixed sequence of frames, then reports ErrNoFrame.
// Frames are cloned on capture so the originals stay usable in tests.
type MockSource struct {
	frames []gocv.Mat
	next   int

	// Err, when set, is returned by every Capture call.
	Err error
}

// NewMockSource creates a mock source over the given frames.
func NewMockSource(frames ...gocv.Mat) *MockSource {
	return &MockSource{frames: frames}
}

// Capture returns a clone of the next canned frame.
func (s *MockSource) Capture() (gocv.Mat, error) {
	if s.Err != nil {
		return gocv.NewMat(), s.Err
	}
	if s.next >= len(s.frames) {
		return gocv.NewMat(), ErrNoFrame
	}
	frame := s.frames[s.next].Clone()
	s.next++
	return frame, nil
}

// Remaining returns how many canned frames are left.
func (s *MockSource) Remaining() int {
	return len(s.frames) - s.next
}

// Close is a no-op; the caller owns the canned frames.
func (s *MockSource) Close() error {
	return nil
}
