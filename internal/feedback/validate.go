package feedback

import (
	"strings"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	msgRequired          = "Poem ID and message are required"
	msgInvalidPoemID     = "Invalid poem ID"
	msgInvalidFeedbackID = "Invalid feedback ID"
)

// ParseID parses a feedback id.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation(msgInvalidFeedbackID)
	}
	return oid, nil
}

// ParsePoemFilter parses the optional poemId filter; "" means no filter.
func ParsePoemFilter(poemID string) (*primitive.ObjectID, error) {
	poemID = strings.TrimSpace(poemID)
	if poemID == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(poemID)
	if err != nil {
		return nil, apperr.Validation(msgInvalidPoemID)
	}
	return &oid, nil
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// ValidateCreate checks the submission and builds the record to persist.
// Anonymous submissions lose name, email and phone whatever was sent.
func ValidateCreate(in CreateInput) (*Feedback, error) {
	if strings.TrimSpace(in.PoemID) == "" || strings.TrimSpace(in.Message) == "" {
		return nil, apperr.Validation(msgRequired)
	}
	poemID, err := primitive.ObjectIDFromHex(strings.TrimSpace(in.PoemID))
	if err != nil {
		return nil, apperr.Validation(msgInvalidPoemID)
	}
	f := &Feedback{
		PoemID:    poemID,
		Message:   in.Message,
		Anonymous: in.Anonymous,
	}
	if !in.Anonymous {
		f.Name = optional(in.Name)
		f.Email = optional(in.Email)
		f.Phone = optional(in.Phone)
	}
	return f, nil
}
