package track

import (
	"image"
	"time"
)

// Object is one inferred aircraft followed across frames.
type Object struct {
	ID         int           // Monotonic identity, never reused
	Centroid   image.Point   // Current position
	Trajectory []image.Point // Ordered centroid history, capped by config
	Speed      float64       // Pixels per frame at the last match
	Heading    float64       // Degrees, atan2(dy, dx) at the last match
	FirstSeen  time.Time
}

// clone returns a deep copy safe to hand outside the tracker.
func (o *Object) clone() *Object {
	c := *o
	c.Trajectory = make([]image.Point, len(o.Trajectory))
	copy(c.Trajectory, o.Trajectory)
	return &c
}
