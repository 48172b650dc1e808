package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Anitej05/Civic-Connect/internal/classifier"
	"github.com/Anitej05/Civic-Connect/internal/geo"
	"github.com/Anitej05/Civic-Connect/internal/pkg/logger"
	apperrors "github.com/Anitej05/Civic-Connect/pkg/errors"
)

const (
	DefaultNearbyRadiusMeters = 2000.0
	MaxNearbyRadiusMeters     = 50000.0
)

// Classifier maps raw evidence to a taxonomy-valid classification.
type Classifier interface {
	Classify(ctx context.Context, text string, image []byte) classifier.Result
}

// MediaStore persists an uploaded photo and returns its public URL.
type MediaStore interface {
	Save(ctx context.Context, r io.Reader, size int64, ext string) (string, error)
}

// ReportStore is the slice of Repository the service needs.
type ReportStore interface {
	Create(ctx context.Context, report *Report) error
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[string]*Report, error)
}

// Service runs the ingestion pipeline and the nearby query. Handlers talk
// to the repository directly for plain CRUD.
type Service struct {
	store      ReportStore
	media      MediaStore
	classifier Classifier
	geoIndex   geo.Index
}

func NewService(store ReportStore, media MediaStore, cls Classifier, geoIndex geo.Index) *Service {
	return &Service{
		store:      store,
		media:      media,
		classifier: cls,
		geoIndex:   geoIndex,
	}
}

// SubmitInput carries one citizen submission through the pipeline.
type SubmitInput struct {
	UserID      string
	Text        string
	Latitude    float64
	Longitude   float64
	Address     string
	Image       []byte
	ImageExt    string
	ImageURL    string // pre-hosted photo URL, skips the media store
}

// Submit validates, stores media, classifies, and persists one report.
// Classification cannot fail the submission; media storage can.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Report, error) {
	if err := ValidateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidLocation, err)
	}
	if err := ValidateSubmission(in.Text, len(in.Image) > 0 || in.ImageURL != ""); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	imageURL := in.ImageURL
	if imageURL == "" && len(in.Image) > 0 {
		url, err := s.media.Save(ctx, bytes.NewReader(in.Image), int64(len(in.Image)), in.ImageExt)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	result := s.classifier.Classify(ctx, in.Text, in.Image)

	report := &Report{
		UserID:             in.UserID,
		Title:              result.Title,
		Description:        result.Description,
		Category:           result.Category,
		Urgency:            result.Urgency,
		AssignedDepartment: result.Department,
		OriginalText:       classifier.Truncate(in.Text, classifier.MaxDescriptionLength),
		Location:           NewGeoPoint(in.Latitude, in.Longitude),
		H3Cell:             geo.CellToken(geo.Point{Latitude: in.Latitude, Longitude: in.Longitude}),
		Address:            in.Address,
		ImageURL:           imageURL,
	}

	if err := s.store.Create(ctx, report); err != nil {
		return nil, err
	}

	if err := s.geoIndex.Insert(ctx, geo.Entry{
		ID:        report.ID.Hex(),
		Location:  geo.Point{Latitude: in.Latitude, Longitude: in.Longitude},
		CreatedAt: report.CreatedAt,
	}); err != nil {
		// The report is already persisted; the Mongo driver rebuilds its
		// view from the collection, so log and keep going.
		logger.Warn("geo index insert failed for report %s: %v", report.ID.Hex(), err)
	}

	return report, nil
}

// Nearby returns reports within radiusMeters of the given point, closest
// first, with DistanceMeters populated.
func (s *Service) Nearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]Report, error) {
	if err := ValidateCoordinates(lat, lng); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidLocation, err)
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultNearbyRadiusMeters
	}
	if radiusMeters > MaxNearbyRadiusMeters {
		radiusMeters = MaxNearbyRadiusMeters
	}

	matches, err := s.geoIndex.QueryNear(ctx, geo.Point{Latitude: lat, Longitude: lng}, radiusMeters)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	ids := make([]primitive.ObjectID, 0, len(matches))
	for _, m := range matches {
		id, err := primitive.ObjectIDFromHex(m.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	byID, err := s.store.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Hydration preserves the index's distance ordering.
	results := make([]Report, 0, len(matches))
	for _, m := range matches {
		report, ok := byID[m.ID]
		if !ok {
			continue
		}
		r := *report
		r.DistanceMeters = m.DistanceMeters
		results = append(results, r)
	}
	return results, nil
}
