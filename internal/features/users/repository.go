package users

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/Anitej05/Civic-Connect/pkg/errors"
)

// Repository handles database interactions for users
type Repository struct {
	collection *mongo.Collection
}

// NewRepository creates repository and ensures indexes
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("users")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clerkUserId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
		},
	})

	return &Repository{collection: collection}
}

// Create inserts a new user. Replayed webhooks hit the unique index; that
// case is treated as success so delivery retries stay idempotent.
func (r *Repository) Create(ctx context.Context, user *User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = RoleCitizen
	}

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("%w: failed to create user: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

// GetByClerkID fetches a user by their identity-provider id.
func (r *Repository) GetByClerkID(ctx context.Context, clerkUserID string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"clerkUserId": clerkUserID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to fetch user: %v", apperrors.ErrPersistence, err)
	}
	return &user, nil
}

// RoleOf implements middleware.RoleResolver.
func (r *Repository) RoleOf(ctx context.Context, clerkUserID string) (string, error) {
	user, err := r.GetByClerkID(ctx, clerkUserID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// SetRole promotes or demotes a user.
func (r *Repository) SetRole(ctx context.Context, clerkUserID, role string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"clerkUserId": clerkUserID},
		bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update role: %v", apperrors.ErrPersistence, err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
