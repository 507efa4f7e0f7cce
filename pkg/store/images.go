package store

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/teslashibe/go-skywatch/pkg/detect"
)

// cropPadding is the margin around the bounding box in saved crops.
const cropPadding = 50

// SaveDetectionImage writes a padded crop of the detection to dir and
// returns its path. The crop is taken from the raw frame, not the annotated
// copy.
func SaveDetectionImage(frame gocv.Mat, c detect.Candidate, dir string) (string, error) {
	if frame.Empty() {
		return "", fmt.Errorf("store: cannot crop empty frame")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("store: create %s: %w", dir, err)
	}

	crop := image.Rect(
		max(0, c.X-cropPadding),
		max(0, c.Y-cropPadding),
		min(frame.Cols(), c.X+c.Width+cropPadding),
		min(frame.Rows(), c.Y+c.Height+cropPadding),
	)

	name := fmt.Sprintf("aircraft_%s_%s.jpg",
		time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	path := filepath.Join(dir, name)

	region := frame.Region(crop)
	defer region.Close()
	if ok := gocv.IMWrite(path, region); !ok {
		return "", fmt.Errorf("store: write %s failed", path)
	}

	return path, nil
}
