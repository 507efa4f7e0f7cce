// Package track maintains identity, trajectory, speed and heading for moving
// objects across frames using greedy nearest-neighbor centroid association.
package track

import (
	"fmt"
	"image"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Tracker associates per-frame centroids with persistent objects.
//
// Like the detector it is single-consumer: Update is called synchronously
// once per frame, and concurrent streams need their own Tracker.
type Tracker struct {
	cfg         Config
	nextID      int
	objects     map[int]*Object
	disappeared map[int]int
}

// New creates a Tracker, rejecting invalid configuration.
func New(cfg Config) (*Tracker, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("track: invalid config: %v", errs)
	}
	return &Tracker{
		cfg:         cfg,
		objects:     make(map[int]*Object),
		disappeared: make(map[int]int),
	}, nil
}

// Update advances the tracker one frame. The returned map is owned by the
// tracker and valid until the next Update; use Objects for a copy that can
// be retained.
//
// Association is greedy, not globally optimal: identities are processed in
// ascending order and each claims its nearest unclaimed centroid. An earlier
// identity can steal the centroid a later one would have preferred, which is
// acceptable for sparse, well-separated targets.
func (t *Tracker) Update(centroids []image.Point) map[int]*Object {
	if len(centroids) == 0 {
		for id := range t.disappeared {
			t.disappeared[id]++
		}
		t.deregisterExpired()
		return t.objects
	}

	if len(t.objects) == 0 {
		for _, c := range centroids {
			t.register(c)
		}
		return t.objects
	}

	ids := t.sortedIDs()

	// Distance matrix: rows are existing identities, columns incoming
	// centroids.
	dist := mat.NewDense(len(ids), len(centroids), nil)
	for i, id := range ids {
		obj := t.objects[id]
		for j, c := range centroids {
			dist.Set(i, j, euclidean(obj.Centroid, c))
		}
	}

	claimed := make(map[int]bool, len(centroids))
	for i, id := range ids {
		minDist := math.Inf(1)
		minCol := -1
		for j := range centroids {
			if claimed[j] {
				continue
			}
			if d := dist.At(i, j); d < minDist {
				minDist = d
				minCol = j
			}
		}

		if minCol >= 0 && minDist < t.cfg.MaxDistance {
			t.match(id, centroids[minCol])
			claimed[minCol] = true
		} else {
			t.disappeared[id]++
		}
	}

	for j, c := range centroids {
		if !claimed[j] {
			t.register(c)
		}
	}

	t.deregisterExpired()
	return t.objects
}

// match moves an object to its newly claimed centroid.
func (t *Tracker) match(id int, centroid image.Point) {
	obj := t.objects[id]
	old := obj.Centroid

	obj.Centroid = centroid
	obj.Trajectory = append(obj.Trajectory, centroid)
	if t.cfg.TrajectoryCap > 0 && len(obj.Trajectory) > t.cfg.TrajectoryCap {
		obj.Trajectory = obj.Trajectory[len(obj.Trajectory)-t.cfg.TrajectoryCap:]
	}

	dx := float64(centroid.X - old.X)
	dy := float64(centroid.Y - old.Y)
	obj.Speed = math.Hypot(dx, dy)
	obj.Heading = math.Atan2(dy, dx) * 180 / math.Pi

	t.disappeared[id] = 0
}

// register starts a new track with the next identity.
func (t *Tracker) register(centroid image.Point) {
	t.objects[t.nextID] = &Object{
		ID:         t.nextID,
		Centroid:   centroid,
		Trajectory: []image.Point{centroid},
		FirstSeen:  time.Now(),
	}
	t.disappeared[t.nextID] = 0
	t.nextID++
}

// deregisterExpired removes every identity whose disappearance counter
// exceeds the configured maximum.
func (t *Tracker) deregisterExpired() {
	for _, id := range t.sortedIDs() {
		if t.disappeared[id] > t.cfg.MaxDisappeared {
			delete(t.objects, id)
			delete(t.disappeared, id)
		}
	}
}

func (t *Tracker) sortedIDs() []int {
	ids := make([]int, 0, len(t.objects))
	for id := range t.objects {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Objects returns deep copies of all live tracked objects.
func (t *Tracker) Objects() map[int]*Object {
	out := make(map[int]*Object, len(t.objects))
	for id, obj := range t.objects {
		out[id] = obj.clone()
	}
	return out
}

// Disappeared returns the current disappearance counter for an identity.
func (t *Tracker) Disappeared(id int) (int, bool) {
	n, ok := t.disappeared[id]
	return n, ok
}

// Len returns the number of live tracked objects.
func (t *Tracker) Len() int {
	return len(t.objects)
}

// Reset drops all tracks. Identities are still never reused: the counter
// keeps climbing across resets.
func (t *Tracker) Reset() {
	t.objects = make(map[int]*Object)
	t.disappeared = make(map[int]int)
}

func euclidean(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
