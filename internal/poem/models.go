package poem

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultAuthor is stored when a poem is created without an author.
const DefaultAuthor = "Anonymous"

// Poem is the persisted poem document (collection "poems").
type Poem struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Content   string             `json:"content" bson:"content"`
	Author    string             `json:"author" bson:"author"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// CreateInput is the accepted body of a create request.
type CreateInput struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
	Author  string `json:"author,omitempty" yaml:"author,omitempty"`
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Author  *string `json:"author,omitempty"`
}

// Empty reports whether the patch supplies no non-blank field.
func (p Patch) Empty() bool {
	return unset(p.Title) && unset(p.Content) && unset(p.Author)
}

func unset(s *string) bool { return s == nil || blank(*s) }

// Apply copies the set fields of p onto dst.
func (p Patch) Apply(dst *Poem) {
	if p.Title != nil {
		dst.Title = *p.Title
	}
	if p.Content != nil {
		dst.Content = *p.Content
	}
	if p.Author != nil {
		dst.Author = *p.Author
	}
}
