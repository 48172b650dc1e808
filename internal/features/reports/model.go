package reports

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Anitej05/Civic-Connect/internal/taxonomy"
)

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude], the
// order Mongo's 2dsphere index expects.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type" example:"Point"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates" example:"78.4867,17.3850"`
}

func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{
		Type:        "Point",
		Coordinates: []float64{lng, lat},
	}
}

func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) < 1 {
		return 0
	}
	return p.Coordinates[0]
}

// AdminNote is one triage annotation in a report's audit trail.
type AdminNote struct {
	Note      string    `bson:"note" json:"note" example:"Crew dispatched"`
	Author    string    `bson:"author" json:"author" example:"user_2abc"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Report represents a citizen-submitted civic issue
// @Description Civic issue report with classification, location and lifecycle state
type Report struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id" example:"507f1f77bcf86cd799439011"`
	UserID             string              `bson:"userId" json:"userId" example:"user_2abc"`
	Title              string              `bson:"title" json:"title" example:"Large pothole on Main St"`
	Description        string              `bson:"description" json:"description" example:"Deep pothole near the bus stop"`
	Category           taxonomy.Category   `bson:"category" json:"category" example:"Pothole"`
	Urgency            taxonomy.Urgency    `bson:"urgency" json:"urgency" example:"Medium"`
	AssignedDepartment taxonomy.Department `bson:"assignedDepartment" json:"assignedDepartment" example:"Public Works"`
	Status             taxonomy.Status     `bson:"status" json:"status" example:"Submitted"`
	OriginalText       string              `bson:"originalText,omitempty" json:"originalText,omitempty" example:"huge pothole near the bus stop on main st"`
	Location           GeoPoint            `bson:"location" json:"location"`
	H3Cell             string              `bson:"h3Cell,omitempty" json:"h3Cell,omitempty" example:"8860a25a47fffff"`
	Address            string              `bson:"address,omitempty" json:"address,omitempty" example:"Main St & 3rd Ave"`
	ImageURL           string              `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Upvotes            int                 `bson:"upvotes" json:"upvotes" example:"3"`
	UpvotedBy          []string            `bson:"upvotedBy" json:"-"`
	AdminNotes         []AdminNote         `bson:"adminNotes" json:"adminNotes"`
	ProgressImages     []string            `bson:"progressImages" json:"progressImages"`
	CreatedAt          time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time           `bson:"updatedAt" json:"updatedAt"`

	// DistanceMeters is populated on nearby queries only.
	DistanceMeters float64 `bson:"-" json:"distanceMeters,omitempty"`
}

// UpdateStatusRequest represents an admin status transition
// @Description Target status with optional note and progress photo
type UpdateStatusRequest struct {
	Status           string `json:"status" binding:"required" example:"In Progress" enums:"Submitted,In Progress,Resolved"`
	Note             string `json:"note" example:"Crew dispatched"`
	ProgressImageURL string `json:"progressImageUrl" example:"https://cdn.example.com/progress.jpg"`
}
