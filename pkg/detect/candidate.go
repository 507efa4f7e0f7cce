package detect

import "image"

// Candidate represents one motion blob that survived area, shape and
// contrast filtering within a single processed frame.
type Candidate struct {
	X, Y          int         // Bounding box origin in pixels
	Width, Height int         // Bounding box size in pixels
	Centroid      image.Point // Box center, integer-rounded
	Contrast      float64     // Region mean vs padded background mean
	Confidence    float64     // Weighted score (0-1)

	// Secondary metrics kept for recording and tuning.
	Area          float64
	AspectRatio   float64
	MovementScore float64
	ShapeScore    float64
}

// Box returns the candidate's bounding box as an image.Rectangle.
func (c Candidate) Box() image.Rectangle {
	return image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height)
}

// Centroids extracts the centroid list for the tracker. No other candidate
// fields cross the detector/tracker boundary.
func Centroids(candidates []Candidate) []image.Point {
	if len(candidates) == 0 {
		return nil
	}
	pts := make([]image.Point, len(candidates))
	for i, c := range candidates {
		pts[i] = c.Centroid
	}
	return pts
}
