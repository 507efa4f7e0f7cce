package detect

import (
	"image"
	"math"
	"testing"

	"gocv.io/x/gocv"
)

func newDetector(t *testing.T, cfg Config) *Detector {
	t.Helper()
	d, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

// uniformFrame returns a solid color frame, closed on test cleanup.
func uniformFrame(t *testing.T, w, h int, val float64) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(val, val, val, 0), h, w, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { m.Close() })
	return m
}

// uniformGray returns a solid single-channel Mat, closed on test cleanup.
func uniformGray(t *testing.T, w, h int, val float64) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(val, 0, 0, 0), h, w, gocv.MatTypeCV8UC1)
	t.Cleanup(func() { m.Close() })
	return m
}

func fillRect(m *gocv.Mat, r image.Rectangle, val uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.SetUCharAt(y, x, val)
		}
	}
}

func TestProcess_EmptyFrame(t *testing.T) {
	d := newDetector(t, DefaultConfig())

	empty := gocv.NewMat()
	defer empty.Close()

	annotated, candidates := d.Process(empty)

	if len(candidates) != 0 {
		t.Errorf("empty frame produced %d candidates", len(candidates))
	}
	if !annotated.Empty() {
		t.Error("empty frame should be returned unchanged")
	}
	if d.HasBaseline() {
		t.Error("empty frame must not become the baseline")
	}
	if d.FrameCount() != 1 {
		t.Errorf("frame counter: got %d, want 1", d.FrameCount())
	}
}

func TestProcess_FirstFrameIsBaseline(t *testing.T) {
	d := newDetector(t, DefaultConfig())
	frame := uniformFrame(t, 320, 240, 180)

	annotated, candidates := d.Process(frame)
	defer annotated.Close()

	if len(candidates) != 0 {
		t.Errorf("first frame produced %d candidates", len(candidates))
	}
	if !d.HasBaseline() {
		t.Error("first frame should be stored as the baseline")
	}
}

func TestProcess_IdenticalFramesNoCandidates(t *testing.T) {
	d := newDetector(t, DefaultConfig())
	frame := uniformFrame(t, 320, 240, 180)

	a1, _ := d.Process(frame)
	a1.Close()
	a2, candidates := d.Process(frame)
	a2.Close()

	if len(candidates) != 0 {
		t.Errorf("identical consecutive frames produced %d candidates", len(candidates))
	}
}

func TestProcess_DoesNotMutateInput(t *testing.T) {
	d := newDetector(t, DefaultConfig())
	frame := uniformFrame(t, 320, 240, 180)

	before := frame.Clone()
	defer before.Close()

	for i := 0; i < 3; i++ {
		annotated, _ := d.Process(frame)
		annotated.Close()
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(before, frame, &diff)
	if n := gocv.Norm(diff, gocv.NormL1); n != 0 {
		t.Errorf("input frame mutated by annotation (L1 diff %v)", n)
	}
}

func TestScore_CompactHighContrastBlob(t *testing.T) {
	d := newDetector(t, DefaultConfig())

	gray := uniformGray(t, 200, 200, 200)
	box := image.Rect(95, 95, 105, 105)
	fillRect(&gray, box, 60)

	mask := uniformGray(t, 200, 200, 0)
	fillRect(&mask, box, 255)

	contour := gocv.NewPointVectorFromPoints([]image.Point{
		{95, 95}, {104, 95}, {104, 104}, {95, 104},
	})
	defer contour.Close()

	c, ok := d.score(contour, gray, mask)
	if !ok {
		t.Fatal("compact high-contrast blob rejected")
	}

	if c.Centroid != image.Pt(100, 100) {
		t.Errorf("centroid: got %v, want (100,100)", c.Centroid)
	}
	if c.Confidence < d.cfg.ConfidenceThreshold || c.Confidence > 1 {
		t.Errorf("confidence %v outside [threshold, 1]", c.Confidence)
	}
	if c.AspectRatio != 1 {
		t.Errorf("aspect ratio: got %v, want 1", c.AspectRatio)
	}
	if c.MovementScore != 1 {
		t.Errorf("movement score: got %v, want 1 for fully-on box", c.MovementScore)
	}
	if c.Contrast < 100 {
		t.Errorf("contrast: got %v, want >= 100 for 60-on-200 blob", c.Contrast)
	}
	if math.Abs(c.Area-81) > 1e-9 {
		t.Errorf("area: got %v, want 81", c.Area)
	}
}

func TestScore_RejectsOutOfRangeAreas(t *testing.T) {
	d := newDetector(t, DefaultConfig())
	gray := uniformGray(t, 400, 400, 200)
	mask := uniformGray(t, 400, 400, 255)

	tests := []struct {
		name   string
		points []image.Point
	}{
		{
			name:   "below min area",
			points: []image.Point{{10, 10}, {13, 10}, {13, 13}, {10, 13}},
		},
		{
			name:   "above max area",
			points: []image.Point{{0, 0}, {390, 0}, {390, 390}, {0, 390}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			contour := gocv.NewPointVectorFromPoints(tc.points)
			defer contour.Close()

			if _, ok := d.score(contour, gray, mask); ok {
				t.Error("contour should be rejected by area filter")
			}
		})
	}
}

func TestScore_RejectsDegenerateSlivers(t *testing.T) {
	d := newDetector(t, DefaultConfig())
	gray := uniformGray(t, 400, 400, 200)
	mask := uniformGray(t, 400, 400, 255)

	// 100x5 box: aspect ratio 20, area 396 (passes the area filter).
	contour := gocv.NewPointVectorFromPoints([]image.Point{
		{10, 10}, {109, 10}, {109, 14}, {10, 14},
	})
	defer contour.Close()

	if _, ok := d.score(contour, gray, mask); ok {
		t.Error("sliver should be rejected by aspect filter")
	}
}

func TestReconfigure(t *testing.T) {
	d := newDetector(t, DefaultConfig())

	cfg := d.Config()
	cfg.MinArea = 40
	cfg.ConfidenceThreshold = 0.8
	if err := d.Reconfigure(cfg); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if got := d.Config(); got.MinArea != 40 || got.ConfidenceThreshold != 0.8 {
		t.Errorf("tuning not applied: %+v", got)
	}

	bad := d.Config()
	bad.ConfidenceThreshold = 2
	if err := d.Reconfigure(bad); err == nil {
		t.Fatal("Reconfigure accepted an invalid config")
	}
	if got := d.Config(); got.ConfidenceThreshold != 0.8 {
		t.Errorf("rejected config leaked into detector: %+v", got)
	}
}

func TestCentroids(t *testing.T) {
	if got := Centroids(nil); got != nil {
		t.Errorf("Centroids(nil): got %v, want nil", got)
	}

	candidates := []Candidate{
		{Centroid: image.Pt(5, 6)},
		{Centroid: image.Pt(7, 8)},
	}
	got := Centroids(candidates)
	want := []image.Point{{5, 6}, {7, 8}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Centroids: got %v, want %v", got, want)
	}
}

func TestCandidateBox(t *testing.T) {
	c := Candidate{X: 10, Y: 20, Width: 30, Height: 40}
	if got, want := c.Box(), image.Rect(10, 20, 40, 60); got != want {
		t.Errorf("Box: got %v, want %v", got, want)
	}
}

func TestTierColor(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{0.2, "red"},
		{0.39, "red"},
		{0.4, "yellow"},
		{0.69, "yellow"},
		{0.7, "green"},
		{0.95, "green"},
	}

	for _, tc := range tests {
		got := tierColor(tc.confidence)
		var name string
		switch got {
		case tierLow:
			name = "red"
		case tierMid:
			name = "yellow"
		case tierHigh:
			name = "green"
		}
		if name != tc.want {
			t.Errorf("tierColor(%v) = %s, want %s", tc.confidence, name, tc.want)
		}
	}
}
