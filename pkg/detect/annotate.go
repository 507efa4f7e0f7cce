package detect

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Confidence tiers for box colors.
var (
	tierLow  = color.RGBA{255, 0, 0, 0}   // < 0.4
	tierMid  = color.RGBA{255, 255, 0, 0} // < 0.7
	tierHigh = color.RGBA{0, 255, 0, 0}   // >= 0.7
	overlay  = color.RGBA{255, 255, 255, 0}
)

func tierColor(confidence float64) color.RGBA {
	switch {
	case confidence < 0.4:
		return tierLow
	case confidence < 0.7:
		return tierMid
	default:
		return tierHigh
	}
}

// drawCandidates draws each candidate's box color-coded by confidence tier
// with a confidence label above it.
func drawCandidates(img *gocv.Mat, candidates []Candidate) {
	for _, c := range candidates {
		clr := tierColor(c.Confidence)
		gocv.Rectangle(img, c.Box(), clr, 2)
		gocv.PutText(img, fmt.Sprintf("Aircraft? %.2f", c.Confidence),
			image.Pt(c.X, c.Y-10), gocv.FontHersheySimplex, 0.5, clr, 2)
	}
}

// drawStats overlays the per-frame statistics line.
func drawStats(img *gocv.Mat, frame, motionObjects, kept int) {
	text := fmt.Sprintf("Frame: %d | Motion Objects: %d | Detections: %d",
		frame, motionObjects, kept)
	gocv.PutText(img, text, image.Pt(10, 30), gocv.FontHersheySimplex, 0.6, overlay, 2)
}
