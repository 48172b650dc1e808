// Package geo answers "which reports are near this point" behind a small
// driver interface. The Mongo driver delegates to a 2dsphere index and is
// the production default; the in-memory driver buckets points into H3 cells
// and serves tests and single-node deployments without a database round trip.
package geo

import (
	"context"
	"time"
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Entry is one indexed report location.
type Entry struct {
	ID        string
	Location  Point
	CreatedAt time.Time
}

// Match is a query hit with its great-circle distance from the query point.
type Match struct {
	ID             string
	DistanceMeters float64
}

// Index is the nearby-query driver contract. QueryNear returns matches
// within radiusMeters inclusive, ordered by distance ascending; ties are
// broken by recency, newest first.
type Index interface {
	Insert(ctx context.Context, e Entry) error
	QueryNear(ctx context.Context, center Point, radiusMeters float64) ([]Match, error)
}
