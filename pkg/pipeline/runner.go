// Package pipeline runs the capture → detect → track → record loop and owns
// all of its mutable state; collaborators are passed in, not reached through
// globals.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-skywatch/internal/log"
	"github.com/teslashibe/go-skywatch/pkg/adsb"
	"github.com/teslashibe/go-skywatch/pkg/capture"
	"github.com/teslashibe/go-skywatch/pkg/detect"
	"github.com/teslashibe/go-skywatch/pkg/store"
	"github.com/teslashibe/go-skywatch/pkg/track"
)

// Recorder is the slice of the persistence layer the pipeline writes to.
type Recorder interface {
	RecordDetection(store.Record) (int64, error)
	RecordTrack(detectionID int64, x, y int) error
	UpdateADSB(detectionID int64, count int, payload string) error
}

// Correlator matches a detection timestamp against an external feed.
type Correlator interface {
	Correlate(ctx context.Context, timestamp time.Time) adsb.Correlation
}

// Status is the pipeline state snapshot pushed to the presentation layer.
type Status struct {
	Active        bool
	FrameCount    int
	Candidates    int
	Tracked       int
	LastDetection time.Time // zero until the first candidate
}

// Publisher receives annotated frames and state snapshots for display.
type Publisher interface {
	PublishFrame(jpeg []byte)
	PublishStatus(Status)
}

// Options tune the runner's side effects.
type Options struct {
	// SaveDetections writes a padded crop per detection to DetectionDir.
	SaveDetections bool
	DetectionDir   string

	// SnapshotDir receives on-demand frame snapshots.
	SnapshotDir string

	// Interval paces the loop; zero runs as fast as the source delivers.
	Interval time.Duration

	// RetryDelay is the backoff after a capture failure.
	RetryDelay time.Duration
}

// DefaultOptions returns the standard runner tuning.
func DefaultOptions() Options {
	return Options{
		DetectionDir: "detections",
		SnapshotDir:  "snapshots",
		RetryDelay:   time.Second,
	}
}

// Runner drives one capture stream through the detector and tracker.
type Runner struct {
	source   capture.Source
	detector *detect.Detector
	tracker  *track.Tracker
	recorder Recorder   // optional
	feed     Correlator // optional
	pub      Publisher  // optional
	opts     Options

	mu       sync.Mutex
	active   bool
	lastJPEG []byte // most recent annotated frame, encoded
	lastSeen time.Time
}

// NewRunner wires a runner. recorder, feed and pub may be nil.
func NewRunner(source capture.Source, detector *detect.Detector, tracker *track.Tracker,
	recorder Recorder, feed Correlator, pub Publisher, opts Options) *Runner {
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	return &Runner{
		source:   source,
		detector: detector,
		tracker:  tracker,
		recorder: recorder,
		feed:     feed,
		pub:      pub,
		opts:     opts,
		active:   true,
	}
}

// Run processes frames until the context is canceled. Detector and tracker
// state is touched only from this goroutine.
func (r *Runner) Run(ctx context.Context) error {
	log.Info("detection pipeline started",
		"save_detections", r.opts.SaveDetections,
		"adsb", r.feed != nil)

	for {
		select {
		case <-ctx.Done():
			log.Info("detection pipeline stopped")
			return ctx.Err()
		default:
		}

		if !r.Active() {
			time.Sleep(r.opts.RetryDelay)
			continue
		}

		frame, err := r.source.Capture()
		if err != nil {
			frame.Close()
			log.Warn("frame capture failed, retrying", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.opts.RetryDelay):
			}
			continue
		}

		r.processFrame(ctx, frame)
		frame.Close()

		if r.opts.Interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.opts.Interval):
			}
		}
	}
}

// processFrame runs one frame through detection, tracking, persistence and
// presentation.
func (r *Runner) processFrame(ctx context.Context, frame gocv.Mat) {
	wasEmpty := frame.Empty()

	r.mu.Lock()
	annotated, candidates := r.detector.Process(frame)
	objects := r.tracker.Update(detect.Centroids(candidates))
	frameCount := r.detector.FrameCount()
	tracked := len(objects)
	r.mu.Unlock()

	if !wasEmpty {
		defer annotated.Close()
	}

	for _, c := range candidates {
		r.record(ctx, frame, c, objects)
	}

	if !wasEmpty {
		drawTracks(&annotated, objects)
		r.publish(annotated)
	}

	r.mu.Lock()
	if len(candidates) > 0 {
		r.lastSeen = time.Now()
	}
	lastSeen := r.lastSeen
	r.mu.Unlock()

	if r.pub != nil {
		r.pub.PublishStatus(Status{
			Active:        true,
			FrameCount:    frameCount,
			Candidates:    len(candidates),
			Tracked:       tracked,
			LastDetection: lastSeen,
		})
	}
}

// record persists one candidate, enriched with tracked metadata when its
// centroid belongs to a live object.
func (r *Runner) record(ctx context.Context, frame gocv.Mat, c detect.Candidate, objects map[int]*track.Object) {
	if r.recorder == nil {
		return
	}

	rec := store.Record{
		Timestamp:  time.Now(),
		X:          c.X,
		Y:          c.Y,
		Width:      c.Width,
		Height:     c.Height,
		Contrast:   c.Contrast,
		Confidence: c.Confidence,
	}

	var matched *track.Object
	for _, obj := range objects {
		if obj.Centroid == c.Centroid {
			matched = obj
			break
		}
	}
	if matched != nil {
		speed, heading := matched.Speed, matched.Heading
		rec.Speed = &speed
		rec.Direction = &heading
	}

	if r.opts.SaveDetections {
		if path, err := store.SaveDetectionImage(frame, c, r.opts.DetectionDir); err != nil {
			log.Warn("failed to save detection image", "error", err)
		} else {
			rec.ImagePath = &path
		}
	}

	id, err := r.recorder.RecordDetection(rec)
	if err != nil {
		log.Error("failed to record detection", "error", err)
		return
	}

	if matched != nil {
		if err := r.recorder.RecordTrack(id, c.Centroid.X, c.Centroid.Y); err != nil {
			log.Warn("failed to record track point", "error", err)
		}
	}

	if r.feed != nil {
		corr := r.feed.Correlate(ctx, rec.Timestamp)
		if corr.Count > 0 {
			log.Info("visual detection correlates with ADS-B traffic",
				"aircraft", corr.Count, "detection", id)
		} else {
			log.Debug("no ADS-B correlation for detection", "detection", id)
		}
		payload, err := json.Marshal(corr)
		if err == nil {
			if err := r.recorder.UpdateADSB(id, corr.Count, string(payload)); err != nil {
				log.Warn("failed to attach adsb payload", "error", err)
			}
		}
	}
}

// publish encodes the annotated frame and hands it to the presenter, keeping
// a copy for on-demand snapshots.
func (r *Runner) publish(annotated gocv.Mat) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, annotated)
	if err != nil {
		log.Warn("failed to encode frame", "error", err)
		return
	}
	jpeg := make([]byte, len(buf.GetBytes()))
	copy(jpeg, buf.GetBytes())
	buf.Close()

	r.mu.Lock()
	r.lastJPEG = jpeg
	r.mu.Unlock()

	if r.pub != nil {
		r.pub.PublishFrame(jpeg)
	}
}

// Active reports whether detection is running.
func (r *Runner) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Toggle flips detection on or off and returns the new state.
func (r *Runner) Toggle() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = !r.active
	return r.active
}

// UpdateSettings applies new detection thresholds between frames. Invalid
// values are rejected and the current tuning stays in effect.
func (r *Runner) UpdateSettings(minArea, confidence float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg := r.detector.Config()
	cfg.MinArea = minArea
	cfg.ConfidenceThreshold = confidence
	if err := r.detector.Reconfigure(cfg); err != nil {
		return err
	}
	log.Info("detection settings updated", "min_area", minArea, "confidence", confidence)
	return nil
}

// ClearTracks drops all tracked objects.
func (r *Runner) ClearTracks() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracker.Reset()
}

// Snapshot writes the most recent annotated frame to the snapshot directory
// and returns its path.
func (r *Runner) Snapshot() (string, error) {
	r.mu.Lock()
	jpeg := r.lastJPEG
	r.mu.Unlock()

	if len(jpeg) == 0 {
		return "", fmt.Errorf("pipeline: no frame available")
	}

	if err := os.MkdirAll(r.opts.SnapshotDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(r.opts.SnapshotDir,
		fmt.Sprintf("snapshot_%s.jpg", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, jpeg, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
