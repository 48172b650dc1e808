package geo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Anitej05/Civic-Connect/pkg/errors"
)

// MongoIndex serves nearby queries with a $geoNear aggregation over the
// reports collection. Inserts are a no-op: the report document itself
// carries the GeoJSON location, so persisting the report is the insert.
type MongoIndex struct {
	collection *mongo.Collection
}

func NewMongoIndex(collection *mongo.Collection) *MongoIndex {
	return &MongoIndex{collection: collection}
}

func (m *MongoIndex) Insert(_ context.Context, _ Entry) error {
	return nil
}

func (m *MongoIndex) QueryNear(ctx context.Context, center Point, radiusMeters float64) ([]Match, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: bson.A{center.Longitude, center.Latitude}},
			}},
			{Key: "distanceField", Value: "distanceMeters"},
			{Key: "maxDistance", Value: radiusMeters},
			{Key: "spherical", Value: true},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "distanceMeters", Value: 1},
			{Key: "createdAt", Value: -1},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "distanceMeters", Value: 1},
		}}},
	}

	cursor, err := m.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: geo query failed: %v", errors.ErrPersistence, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID             primitive.ObjectID `bson:"_id"`
		DistanceMeters float64            `bson:"distanceMeters"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%w: geo query decode failed: %v", errors.ErrPersistence, err)
	}

	matches := make([]Match, len(rows))
	for i, r := range rows {
		matches[i] = Match{ID: r.ID.Hex(), DistanceMeters: r.DistanceMeters}
	}
	return matches, nil
}
