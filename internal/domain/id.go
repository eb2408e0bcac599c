package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

const idLength = 24

// ParseID validates the external form of a user id. Anything that is not exactly
// 24 hex characters is rejected, and callers treat that the same as a missing record.
func ParseID(raw string) (primitive.ObjectID, bool) {
	if len(raw) != idLength {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// NewID allocates a fresh id for stores that do not generate one themselves.
func NewID() string { return primitive.NewObjectID().Hex() }
