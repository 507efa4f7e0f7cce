// Package detect implements the frame-analysis core: frame differencing,
// adaptive segmentation and multi-factor confidence scoring of small moving
// objects against the sky.
package detect

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// Detector turns a raw color frame plus the previous frame's grayscale
// snapshot into a list of confidence-scored candidates.
//
// A Detector is single-consumer: it is invoked synchronously once per frame
// and must not be shared across capture streams. Call Close to release the
// native buffers it owns.
type Detector struct {
	cfg    Config
	prev   gocv.Mat // previous blurred grayscale snapshot
	kernel gocv.Mat // 3x3 morphology kernel, reused across frames
	frames int
}

// New creates a Detector. Invalid thresholds are rejected here rather than
// discovered mid-stream.
func New(cfg Config) (*Detector, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("detect: invalid config: %v", errs)
	}
	return &Detector{
		cfg:    cfg,
		prev:   gocv.NewMat(),
		kernel: gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3)),
	}, nil
}

// Config returns the detector configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// Reconfigure swaps the detector tuning between frames. An invalid config is
// rejected and the current tuning stays in effect.
func (d *Detector) Reconfigure(cfg Config) error {
	if errs := cfg.Validate(); len(errs) > 0 {
		return fmt.Errorf("detect: invalid config: %v", errs)
	}
	d.cfg = cfg
	return nil
}

// FrameCount returns the number of frames seen so far, including empty ones.
func (d *Detector) FrameCount() int {
	return d.frames
}

// HasBaseline reports whether a previous-frame snapshot is stored.
func (d *Detector) HasBaseline() bool {
	return !d.prev.Empty()
}

// Process analyzes one frame and returns an annotated copy plus the
// candidates that passed the confidence threshold. The input frame is never
// mutated. An empty frame is returned unchanged with no candidates and no
// state change beyond the frame counter.
func (d *Detector) Process(frame gocv.Mat) (gocv.Mat, []Candidate) {
	d.frames++

	if frame.Empty() {
		return frame, nil
	}

	gray := gocv.NewMat()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	// Light blur: suppresses single-pixel sensor noise while keeping
	// sub-20-pixel silhouettes intact.
	k := image.Pt(d.cfg.BlurKernel, d.cfg.BlurKernel)
	gocv.GaussianBlur(gray, &gray, k, 0, 0, gocv.BorderDefault)

	if d.prev.Empty() {
		// First comparable frame becomes the baseline.
		d.prev.Close()
		d.prev = gray
		return frame.Clone(), nil
	}

	delta := gocv.NewMat()
	defer delta.Close()
	gocv.AbsDiff(d.prev, gray, &delta)

	// Locally adaptive binarization compensates for uneven sky brightness;
	// a single global threshold washes out near the horizon.
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.AdaptiveThreshold(delta, &mask, 255, gocv.AdaptiveThresholdGaussian,
		gocv.ThresholdBinary, d.cfg.AdaptiveBlock, float32(d.cfg.AdaptiveC))

	// Opening removes isolated noise pixels, the dilation reconnects
	// fragmented silhouettes.
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, d.kernel)
	gocv.Dilate(mask, &mask, d.kernel)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var candidates []Candidate
	for i := 0; i < contours.Size(); i++ {
		if c, ok := d.score(contours.At(i), gray, mask); ok {
			candidates = append(candidates, c)
		}
	}

	d.prev.Close()
	d.prev = gray

	annotated := frame.Clone()
	drawCandidates(&annotated, candidates)
	drawStats(&annotated, d.frames, contours.Size(), len(candidates))

	return annotated, candidates
}

// score filters one contour and computes its confidence. Candidates keep
// contour-discovery order; there is no ranking pass.
func (d *Detector) score(contour gocv.PointVector, gray, mask gocv.Mat) (Candidate, bool) {
	area := gocv.ContourArea(contour)
	if area < d.cfg.MinArea || area > d.cfg.MaxArea {
		return Candidate{}, false
	}

	rect := gocv.BoundingRect(contour)
	w, h := rect.Dx(), rect.Dy()
	if w == 0 || h == 0 {
		return Candidate{}, false
	}

	aspect := float64(w) / float64(h)
	if aspect < d.cfg.MinAspect || aspect > d.cfg.MaxAspect {
		return Candidate{}, false
	}

	roi := gray.Region(rect)
	roiMean := roi.Mean().Val1
	roi.Close()

	// Background sampled from a padded surround of the box.
	padding := max(10, max(w, h))
	surround := image.Rect(
		max(0, rect.Min.X-padding),
		max(0, rect.Min.Y-padding),
		min(gray.Cols(), rect.Max.X+padding),
		min(gray.Rows(), rect.Max.Y+padding),
	)
	bg := gray.Region(surround)
	bgMean := bg.Mean().Val1
	bg.Close()

	contrast := math.Abs(roiMean - bgMean)
	contrastScore := math.Min(1, contrast/d.cfg.ContrastDivisor)

	// Penalizes both too-small and too-large blobs around the typical
	// silhouette area.
	sizeScore := 1 - math.Abs(area-d.cfg.TargetArea)/d.cfg.TargetArea
	sizeScore = math.Max(0, math.Min(1, sizeScore))

	// Circularity rewards compact shapes over stringy artifacts like
	// contrails and wires.
	shapeScore := 0.0
	if perimeter := gocv.ArcLength(contour, true); perimeter > 0 {
		circularity := 4 * math.Pi * area / (perimeter * perimeter)
		shapeScore = math.Min(1, circularity*2)
	}

	inBox := mask.Region(rect)
	on := gocv.CountNonZero(inBox)
	inBox.Close()
	movementScore := math.Min(1, float64(on)/float64(w*h))

	confidence := contrastScore*d.cfg.ContrastWeight +
		sizeScore*d.cfg.SizeWeight +
		shapeScore*d.cfg.ShapeWeight +
		movementScore*d.cfg.MovementWeight

	if confidence < d.cfg.ConfidenceThreshold {
		return Candidate{}, false
	}

	return Candidate{
		X:             rect.Min.X,
		Y:             rect.Min.Y,
		Width:         w,
		Height:        h,
		Centroid:      image.Pt(rect.Min.X+w/2, rect.Min.Y+h/2),
		Contrast:      contrast,
		Confidence:    confidence,
		Area:          area,
		AspectRatio:   aspect,
		MovementScore: movementScore,
		ShapeScore:    shapeScore,
	}, true
}

// Close releases the detector's native resources.
func (d *Detector) Close() error {
	d.prev.Close()
	d.kernel.Close()
	return nil
}
