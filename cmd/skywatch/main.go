// Skywatch - visual aircraft detection station.
//
// Captures sky frames, detects small high-contrast moving objects, tracks
// them across frames, records detections to sqlite, and serves a live
// dashboard. Optionally correlates detections with a local ADS-B receiver.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-skywatch/internal/config"
	"github.com/teslashibe/go-skywatch/internal/log"
	"github.com/teslashibe/go-skywatch/pkg/adsb"
	"github.com/teslashibe/go-skywatch/pkg/capture"
	"github.com/teslashibe/go-skywatch/pkg/detect"
	"github.com/teslashibe/go-skywatch/pkg/pipeline"
	"github.com/teslashibe/go-skywatch/pkg/store"
	"github.com/teslashibe/go-skywatch/pkg/track"
	"github.com/teslashibe/go-skywatch/pkg/web"
)

func main() {
	device := flag.Int("device", 0, "capture device index")
	file := flag.String("file", "", "read frames from a video file instead of a device")
	saveDetections := flag.Bool("save-detections", false, "save a cropped image per detection")
	enableADSB := flag.Bool("adsb", false, "correlate detections with the ADS-B feed")
	flag.Parse()

	log.Init(config.LogLevel())

	source, err := openSource(*file, *device)
	if err != nil {
		log.Error("failed to open capture source", "error", err)
		os.Exit(1)
	}
	defer source.Close()

	db, err := store.NewStore(config.DBPath())
	if err != nil {
		log.Error("failed to open database", "path", config.DBPath(), "error", err)
		os.Exit(1)
	}
	defer db.Close()

	detector, err := detect.New(detect.DefaultConfig())
	if err != nil {
		log.Error("invalid detector config", "error", err)
		os.Exit(1)
	}
	defer detector.Close()

	tracker, err := track.New(track.DefaultConfig())
	if err != nil {
		log.Error("invalid tracker config", "error", err)
		os.Exit(1)
	}

	var feed pipeline.Correlator
	var client *adsb.Client
	if *enableADSB {
		client = adsb.NewClient(config.ADSBURL())
		if lat, lon, ok := config.CameraLocation(); ok {
			client.SetLocation(lat, lon)
		}
		feed = client
	}

	opts := pipeline.DefaultOptions()
	opts.SaveDetections = *saveDetections
	opts.DetectionDir = config.DetectionDir()

	server := web.NewServer(config.WebPort(), db)
	runner := pipeline.NewRunner(source, detector, tracker, db, feed, statePublisher{server}, opts)

	server.OnToggle = runner.Toggle
	server.OnClearTracks = runner.ClearTracks
	server.OnSnapshot = runner.Snapshot
	server.OnSettings = runner.UpdateSettings
	if client != nil {
		server.OnADSBStatus = func() (any, error) {
			aircraft, err := client.Nearby(context.Background(), 50)
			if err != nil {
				return nil, err
			}
			return aircraft, nil
		}
	}
	server.UpdateState(func(st *web.State) { st.ADSBEnabled = *enableADSB })
	server.StartAsync()

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		cancel()
	}()

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("pipeline failed", "error", err)
	}

	server.Shutdown()
}

func openSource(file string, device int) (capture.Source, error) {
	if file != "" {
		return capture.OpenFile(file)
	}
	return capture.OpenDevice(device)
}

// statePublisher adapts the dashboard server to the pipeline's Publisher.
type statePublisher struct {
	server *web.Server
}

func (p statePublisher) PublishFrame(jpeg []byte) {
	p.server.PublishFrame(jpeg)
}

func (p statePublisher) PublishStatus(s pipeline.Status) {
	p.server.UpdateState(func(st *web.State) {
		st.DetectionActive = s.Active
		st.FrameCount = s.FrameCount
		st.CandidateCount = s.Candidates
		st.TrackedObjects = s.Tracked
		if !s.LastDetection.IsZero() {
			st.LastDetection = s.LastDetection.Format(time.RFC3339)
		}
	})
}
