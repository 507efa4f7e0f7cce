package pipeline

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-skywatch/pkg/track"
)

var trackColor = color.RGBA{0, 255, 0, 0}

// drawTracks overlays identity, trajectory and motion info for each tracked
// object on the annotated frame.
func drawTracks(img *gocv.Mat, objects map[int]*track.Object) {
	for id, obj := range objects {
		c := obj.Centroid
		gocv.Circle(img, c, 4, trackColor, -1)
		gocv.PutText(img, fmt.Sprintf("ID: %d", id),
			image.Pt(c.X-10, c.Y-10), gocv.FontHersheySimplex, 0.5, trackColor, 2)

		for i := 1; i < len(obj.Trajectory); i++ {
			gocv.Line(img, obj.Trajectory[i-1], obj.Trajectory[i], trackColor, 2)
		}

		gocv.PutText(img, fmt.Sprintf("Spd: %.1f Dir: %.0f", obj.Speed, obj.Heading),
			image.Pt(c.X-10, c.Y+10), gocv.FontHersheySimplex, 0.5, trackColor, 2)
	}
}
