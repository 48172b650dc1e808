package users

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleCitizen = "citizen"
	RoleAdmin   = "admin"
)

// User mirrors an identity-provider account. ClerkUserID is the stable
// external id carried in JWT subjects; it is the key everything else joins
// on, not the Mongo _id.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClerkUserID string             `bson:"clerkUserId" json:"clerkUserId"`
	Email       string             `bson:"email" json:"email"`
	Role        string             `bson:"role" json:"role"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
