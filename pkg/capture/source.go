// Package capture abstracts frame acquisition for the detection pipeline.
package capture

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrNoFrame indicates the source could not supply a frame. The pipeline
// treats this as transient and retries.
var ErrNoFrame = errors.New("capture: no frame available")

// Source supplies one color frame per call. The returned Mat is owned by the
// caller, who must Close it.
type Source interface {
	Capture() (gocv.Mat, error)
	Close() error
}

// VideoSource reads frames from a camera device or a video file through
// OpenCV's VideoCapture.
type VideoSource struct {
	cap *gocv.VideoCapture
}

// OpenDevice opens a capture device by index.
func OpenDevice(id int) (*VideoSource, error) {
	cap, err := gocv.VideoCaptureDevice(id)
	if err != nil {
		return nil, fmt.Errorf("capture: open device %d: %w", id, err)
	}
	return &VideoSource{cap: cap}, nil
}

// OpenFile opens a video file for replay.
func OpenFile(path string) (*VideoSource, error) {
	cap, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("capture: open file %s: %w", path, err)
	}
	return &VideoSource{cap: cap}, nil
}

// Capture reads the next frame.
func (s *VideoSource) Capture() (gocv.Mat, error) {
	frame := gocv.NewMat()
	if ok := s.cap.Read(&frame); !ok || frame.Empty() {
		frame.Close()
		return gocv.NewMat(), ErrNoFrame
	}
	return frame, nil
}

// Close releases the underlying capture device.
func (s *VideoSource) Close() error {
	return s.cap.Close()
}
