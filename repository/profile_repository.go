package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Danii44/PRIMEHODDIE/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const UsersCollection = "users"

// ProfileRepository reads the role the admin dashboard assigns to each user.
type ProfileRepository struct {
	collection *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{collection: db.Collection(UsersCollection)}
}

type profileDoc struct {
	Role string `bson:"role"`
}

func (r *ProfileRepository) LookupRole(ctx context.Context, userID string) (models.Role, error) {
	var doc profileDoc
	opts := options.FindOne().SetProjection(bson.M{"role": 1})
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.RoleCustomer, nil
	}
	if err != nil {
		return "", fmt.Errorf("find profile %s: %w", userID, err)
	}
	return roleOf(doc.Role), nil
}

func roleOf(s string) models.Role {
	if r := models.Role(s); r.Valid() {
		return r
	}
	return models.RoleCustomer
}
