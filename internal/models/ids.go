package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ParseID turns a hex path/body parameter into an ObjectID, failing with a
// ValidationError that names the offending field
func ParseID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, NewValidationError("invalid " + field + ": " + hex)
	}
	return id, nil
}
