package geo

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/uber/h3-go/v4"
)

const (
	// Resolution 8 cells average ~461m edge length, a good bucket size for
	// neighborhood-scale civic queries.
	memoryIndexResolution = 8
	avgHexEdgeMeters      = 461.0

	earthRadiusMeters = 6371000.0
)

// MemoryIndex is an in-process Index backed by H3 cell buckets. Candidate
// cells are found with a grid disk around the query point, then candidates
// are filtered by exact Haversine distance.
type MemoryIndex struct {
	mu      sync.Mutex
	buckets map[h3.Cell][]Entry
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		buckets: make(map[h3.Cell][]Entry),
	}
}

func (m *MemoryIndex) Insert(_ context.Context, e Entry) error {
	cell := cellOf(e.Location)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets[cell] = append(m.buckets[cell], e)
	return nil
}

func (m *MemoryIndex) QueryNear(_ context.Context, center Point, radiusMeters float64) ([]Match, error) {
	if radiusMeters < 0 {
		radiusMeters = 0
	}

	// A disk of k rings guarantees coverage of the radius when
	// k*edge >= radius, with one extra ring for cell shape irregularity.
	k := int(math.Ceil(radiusMeters/avgHexEdgeMeters)) + 1
	cells := h3.GridDisk(cellOf(center), k)

	type hit struct {
		entry    Entry
		distance float64
	}

	m.mu.Lock()
	var hits []hit
	for _, cell := range cells {
		for _, e := range m.buckets[cell] {
			d := haversineMeters(center, e.Location)
			if d <= radiusMeters {
				hits = append(hits, hit{entry: e, distance: d})
			}
		}
	}
	m.mu.Unlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].distance != hits[j].distance {
			return hits[i].distance < hits[j].distance
		}
		return hits[i].entry.CreatedAt.After(hits[j].entry.CreatedAt)
	})

	matches := make([]Match, len(hits))
	for i, h := range hits {
		matches[i] = Match{ID: h.entry.ID, DistanceMeters: h.distance}
	}
	return matches, nil
}

func cellOf(p Point) h3.Cell {
	return h3.LatLngToCell(h3.NewLatLng(p.Latitude, p.Longitude), memoryIndexResolution)
}

// CellToken returns the H3 cell token for a point at the index resolution.
// Reports persist it so stored points can be re-bucketed without recomputing
// from raw coordinates.
func CellToken(p Point) string {
	return cellOf(p).String()
}

// haversineMeters returns the great-circle distance between two points.
func haversineMeters(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
