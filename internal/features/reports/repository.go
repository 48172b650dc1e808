package reports

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Anitej05/Civic-Connect/internal/taxonomy"
	apperrors "github.com/Anitej05/Civic-Connect/pkg/errors"
)

// Repository handles database interactions for reports
type Repository struct {
	collection *mongo.Collection
}

// NewRepository creates repository and ensures indexes
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("reports")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			// Geospatial queries for the nearby endpoint
			Keys: bson.D{{Key: "location", Value: "2dsphere"}},
		},
		{
			// A citizen's own reports, newest first
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			// Admin triage filters
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "assignedDepartment", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}},
		},
	})

	return &Repository{collection: collection}
}

// Create inserts a new report with lifecycle defaults applied.
func (r *Repository) Create(ctx context.Context, report *Report) error {
	// Invalid classification values or coordinates must never reach
	// storage, even though the pipeline checks both upstream.
	if !taxonomy.ValidCategory(report.Category) ||
		!taxonomy.ValidUrgency(report.Urgency) ||
		!taxonomy.ValidDepartment(report.AssignedDepartment) {
		return fmt.Errorf("%w: report classification outside closed sets", apperrors.ErrInvalidTaxonomy)
	}
	if err := ValidateCoordinates(report.Location.Latitude(), report.Location.Longitude()); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := time.Now()
	report.ID = primitive.NewObjectID()
	report.Status = taxonomy.StatusSubmitted
	report.Upvotes = 0
	report.UpvotedBy = []string{}
	report.AdminNotes = []AdminNote{}
	report.ProgressImages = []string{}
	report.CreatedAt = now
	report.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("%w: failed to create report: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

// GetByID fetches a single report.
func (r *Repository) GetByID(ctx context.Context, id string) (*Report, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid report id", apperrors.ErrBadRequest)
	}

	var report Report
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to fetch report: %v", apperrors.ErrPersistence, err)
	}
	return &report, nil
}

// GetByIDs fetches a batch of reports keyed by id.
func (r *Repository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[string]*Report, error) {
	if len(ids) == 0 {
		return map[string]*Report{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch reports: %v", apperrors.ErrPersistence, err)
	}
	defer cursor.Close(ctx)

	var list []Report
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("%w: failed to decode reports: %v", apperrors.ErrPersistence, err)
	}

	byID := make(map[string]*Report, len(list))
	for i := range list {
		byID[list[i].ID.Hex()] = &list[i]
	}
	return byID, nil
}

// GetByUser returns a citizen's reports, newest first.
func (r *Repository) GetByUser(ctx context.Context, userID string, page, limit int) ([]Report, int64, error) {
	filter := bson.M{"userId": userID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to count reports: %v", apperrors.ErrPersistence, err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to fetch reports: %v", apperrors.ErrPersistence, err)
	}
	defer cursor.Close(ctx)

	reports := []Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, 0, fmt.Errorf("%w: failed to decode reports: %v", apperrors.ErrPersistence, err)
	}
	return reports, total, nil
}

// AdminFilter narrows the admin triage listing. Empty fields match all.
type AdminFilter struct {
	Status     string
	Category   string
	Department string
}

// ListForAdmin returns reports matching every set filter, newest first.
func (r *Repository) ListForAdmin(ctx context.Context, f AdminFilter, page, limit int) ([]Report, int64, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Department != "" {
		filter["assignedDepartment"] = f.Department
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to count reports: %v", apperrors.ErrPersistence, err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to fetch reports: %v", apperrors.ErrPersistence, err)
	}
	defer cursor.Close(ctx)

	reports := []Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, 0, fmt.Errorf("%w: failed to decode reports: %v", apperrors.ErrPersistence, err)
	}
	return reports, total, nil
}

// Upvote records one vote per user per report. The filter and update run as
// a single document operation, so concurrent duplicate votes cannot both
// land.
func (r *Repository) Upvote(ctx context.Context, id, userID string) (*Report, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid report id", apperrors.ErrBadRequest)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":       objectID,
			"upvotedBy": bson.M{"$ne": userID},
		},
		bson.M{
			"$addToSet": bson.M{"upvotedBy": userID},
			"$inc":      bson.M{"upvotes": 1},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to upvote report: %v", apperrors.ErrPersistence, err)
	}

	if result.MatchedCount == 0 {
		// Either the report does not exist or this user already voted.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrAlreadyVoted
	}

	return r.GetByID(ctx, id)
}

// UpdateStatus moves a report along its lifecycle. The legal source
// statuses form the filter, so an illegal transition matches nothing and
// the check-then-write is atomic. The note and progress image ride on the
// same update.
func (r *Repository) UpdateStatus(ctx context.Context, id string, target taxonomy.Status, note *AdminNote, progressImageURL string) (*Report, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid report id", apperrors.ErrBadRequest)
	}

	sources := taxonomy.TransitionSources(target)
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: status %q", apperrors.ErrInvalidTaxonomy, string(target))
	}

	update := bson.M{
		"$set": bson.M{
			"status":    target,
			"updatedAt": time.Now(),
		},
	}
	push := bson.M{}
	if note != nil {
		push["adminNotes"] = note
	}
	if progressImageURL != "" {
		push["progressImages"] = progressImageURL
	}
	if len(push) > 0 {
		update["$push"] = push
	}

	var updated Report
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{
			"_id":    objectID,
			"status": bson.M{"$in": sources},
		},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)

	if err == nil {
		return &updated, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: failed to update report status: %v", apperrors.ErrPersistence, err)
	}

	// Disambiguate: missing report vs illegal backward transition.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, current.Status, target)
}
