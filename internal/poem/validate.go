package poem

import (
	"strings"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	msgRequired      = "Title and content are required"
	msgNothingToDo   = "Nothing to update"
	msgBlankTitle    = "Title cannot be empty"
	msgBlankContent  = "Content cannot be empty"
	msgInvalidPoemID = "Invalid poem ID"
)

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// ParseID parses a hex ObjectID, rejecting anything malformed.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation(msgInvalidPoemID)
	}
	return oid, nil
}

// ValidateCreate checks required fields and fills the author default.
func ValidateCreate(in CreateInput) (CreateInput, error) {
	if blank(in.Title) || blank(in.Content) {
		return in, apperr.Validation(msgRequired)
	}
	if blank(in.Author) {
		in.Author = DefaultAuthor
	}
	return in, nil
}

// ValidatePatch rejects patches without a non-blank field and blank required
// fields. The author is stored as sent.
func ValidatePatch(p Patch) (Patch, error) {
	if p.Empty() {
		return p, apperr.Validation(msgNothingToDo)
	}
	if p.Title != nil && blank(*p.Title) {
		return p, apperr.Validation(msgBlankTitle)
	}
	if p.Content != nil && blank(*p.Content) {
		return p, apperr.Validation(msgBlankContent)
	}
	return p, nil
}
