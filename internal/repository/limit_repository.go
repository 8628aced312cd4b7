package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/draganv/speedwatch-backend-go/internal/models"
	"github.com/draganv/speedwatch-backend-go/internal/spatial"
)

// LimitRepository handles database operations for the speed-limit index.
// It implements speedlimit.SpatialIndex over the speed_limits table and is
// safe for concurrent readers.
type LimitRepository struct {
	db *sql.DB
}

// NewLimitRepository creates a new limit repository
func NewLimitRepository(db *sql.DB) *LimitRepository {
	return &LimitRepository{db: db}
}

// Exact returns candidates stored under the same rounded-coordinate bucket
// as the query, in insertion order.
func (r *LimitRepository) Exact(lat, lon float64, precisionDigits int) ([]models.LimitFeature, error) {
	key := fmt.Sprintf("%.*f,%.*f", precisionDigits, lat, precisionDigits, lon)

	rows, err := r.db.Query(`
		SELECT way_id, maxspeed, highway, name
		FROM speed_limits
		WHERE coord_key = ?
		ORDER BY id
	`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query exact speed limits: %w", err)
	}
	defer rows.Close()

	return scanFeatures(rows)
}

func scanFeatures(rows *sql.Rows) ([]models.LimitFeature, error) {
	var features []models.LimitFeature
	for rows.Next() {
		var f models.LimitFeature
		if err := rows.Scan(&f.WayID, &f.Maxspeed, &f.Highway, &f.Name); err != nil {
			return nil, fmt.Errorf("failed to scan speed limit: %w", err)
		}
		features = append(features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating speed limits: %w", err)
	}
	return features, nil
}

// Nearest returns candidates within maxDistanceDeg degrees of the query
// coordinate, ordered by ascending great-circle distance. The range scan is
// prefiltered by a degree bounding box on the indexed coordinate columns.
func (r *LimitRepository) Nearest(lat, lon, maxDistanceDeg float64) ([]models.LimitFeature, error) {
	minLat, maxLat, minLon, maxLon := spatial.DegreeBox(lat, lon, maxDistanceDeg)

	rows, err := r.db.Query(`
		SELECT way_id, latitude, longitude, maxspeed, highway, name
		FROM speed_limits
		WHERE latitude BETWEEN ? AND ?
			AND longitude BETWEEN ? AND ?
		ORDER BY id
	`, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearest speed limits: %w", err)
	}
	defer rows.Close()

	type ranked struct {
		feature models.LimitFeature
		meters  float64
	}

	var candidates []ranked
	for rows.Next() {
		var f models.LimitFeature
		var fLat, fLon float64
		if err := rows.Scan(&f.WayID, &fLat, &fLon, &f.Maxspeed, &f.Highway, &f.Name); err != nil {
			return nil, fmt.Errorf("failed to scan speed limit: %w", err)
		}

		// Radius membership is decided in degree space; ranking uses
		// great-circle distance.
		if spatial.DegreeDistance(lat, lon, fLat, fLon) > maxDistanceDeg {
			continue
		}

		candidates = append(candidates, ranked{
			feature: f,
			meters:  spatial.HaversineDistance(lat, lon, fLat, fLon),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating speed limits: %w", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].meters < candidates[j].meters
	})

	features := make([]models.LimitFeature, 0, len(candidates))
	for _, c := range candidates {
		features = append(features, c.feature)
	}
	return features, nil
}

// Count returns the number of stored speed-limit features.
func (r *LimitRepository) Count() (int64, error) {
	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM speed_limits").Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count speed limits: %w", err)
	}
	return total, nil
}

// Insert stores one speed-limit feature at the given coordinate.
func (r *LimitRepository) Insert(lat, lon float64, f models.LimitFeature) error {
	return r.insert(r.db, lat, lon, f)
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func (r *LimitRepository) insert(e execer, lat, lon float64, f models.LimitFeature) error {
	highway := f.Highway
	if highway == "" {
		highway = "unknown"
	}

	_, err := e.Exec(`
		INSERT INTO speed_limits (way_id, latitude, longitude, coord_key, maxspeed, highway, name)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, f.WayID, lat, lon, fmt.Sprintf("%.6f,%.6f", lat, lon), f.Maxspeed, highway, f.Name)
	if err != nil {
		return fmt.Errorf("failed to insert speed limit: %w", err)
	}
	return nil
}

// extractEntry mirrors one candidate in the OSM extract file.
type extractEntry struct {
	WayID    int64  `json:"way_id"`
	Maxspeed string `json:"maxspeed"`
	Highway  string `json:"highway"`
	Name     string `json:"name"`
}

// ImportExtract loads an OSM speed-limit extract (a JSON map of "lat,lon"
// bucket keys to candidate lists) into the index inside one transaction.
// Returns the number of imported features. Entries under a malformed bucket
// key are skipped.
func (r *LimitRepository) ImportExtract(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read extract file: %w", err)
	}

	var extract map[string][]extractEntry
	if err := json.Unmarshal(data, &extract); err != nil {
		return 0, fmt.Errorf("failed to parse extract file: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	imported := 0
	for key, entries := range extract {
		lat, lon, ok := parseCoordKey(key)
		if !ok {
			continue
		}

		for _, e := range entries {
			feature := models.LimitFeature{
				WayID:    e.WayID,
				Maxspeed: e.Maxspeed,
				Highway:  e.Highway,
				Name:     e.Name,
			}
			if err := r.insert(tx, lat, lon, feature); err != nil {
				return 0, err
			}
			imported++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return imported, nil
}

func parseCoordKey(key string) (lat, lon float64, ok bool) {
	parts := strings.Split(key, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	var err error
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}

	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}

	return lat, lon, true
}
