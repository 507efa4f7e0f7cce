// Package store persists finalized detections to a local sqlite database.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the detections database.
type Store struct {
	*sql.DB
}

// Record is one finalized detection row. Speed, Direction and ImagePath are
// optional: they are present only when the candidate matched a tracked
// object or a crop was saved.
type Record struct {
	ID         int64
	Timestamp  time.Time
	X, Y       int
	Width      int
	Height     int
	Contrast   float64
	Confidence float64
	ImagePath  *string
	Speed      *float64
	Direction  *float64
}

// NewStore opens (creating if needed) the detections database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS detections (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   TEXT NOT NULL,
			x           INTEGER NOT NULL,
			y           INTEGER NOT NULL,
			width       INTEGER NOT NULL,
			height      INTEGER NOT NULL,
			contrast    REAL NOT NULL,
			confidence  REAL NOT NULL,
			image_path  TEXT,
			speed       REAL,
			direction   REAL,
			adsb_count  INTEGER,
			adsb_json   TEXT
		);
		CREATE TABLE IF NOT EXISTS tracking (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			detection_id INTEGER NOT NULL,
			timestamp    TEXT NOT NULL,
			x            INTEGER NOT NULL,
			y            INTEGER NOT NULL,
			FOREIGN KEY (detection_id) REFERENCES detections (id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create tables: %w", err)
	}

	return &Store{db}, nil
}

// RecordDetection inserts one detection and returns its row id.
func (s *Store) RecordDetection(r Record) (int64, error) {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := s.Exec(`
		INSERT INTO detections
		(timestamp, x, y, width, height, contrast, confidence, image_path, speed, direction)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.Format(time.RFC3339Nano), r.X, r.Y, r.Width, r.Height,
		r.Contrast, r.Confidence, r.ImagePath, r.Speed, r.Direction)
	if err != nil {
		return 0, fmt.Errorf("store: record detection: %w", err)
	}
	return res.LastInsertId()
}

// RecordTrack appends a tracking update for an existing detection.
func (s *Store) RecordTrack(detectionID int64, x, y int) error {
	_, err := s.Exec(`
		INSERT INTO tracking (detection_id, timestamp, x, y)
		VALUES (?, ?, ?, ?)`,
		detectionID, time.Now().Format(time.RFC3339Nano), x, y)
	if err != nil {
		return fmt.Errorf("store: record track: %w", err)
	}
	return nil
}

// UpdateADSB attaches an ADS-B correlation payload to a detection.
func (s *Store) UpdateADSB(detectionID int64, count int, payload string) error {
	_, err := s.Exec(`
		UPDATE detections SET adsb_count = ?, adsb_json = ? WHERE id = ?`,
		count, payload, detectionID)
	if err != nil {
		return fmt.Errorf("store: update adsb: %w", err)
	}
	return nil
}

// RecentDetections returns up to limit detections, newest first.
func (s *Store) RecentDetections(limit int) ([]Record, error) {
	rows, err := s.Query(`
		SELECT id, timestamp, x, y, width, height, contrast, confidence,
		       image_path, speed, direction
		FROM detections ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent detections: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var ts string
		if err := rows.Scan(&r.ID, &ts, &r.X, &r.Y, &r.Width, &r.Height,
			&r.Contrast, &r.Confidence, &r.ImagePath, &r.Speed, &r.Direction); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			r.Timestamp = parsed
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
