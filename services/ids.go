package services

import (
	"github.com/02priyeshraj/GrubSpot_Backend/apperror"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parseID(id, what string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, apperror.Validation("%s id is required", what)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperror.Validation("invalid %s id", what)
	}
	return oid, nil
}
