package feedback

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is a reader's message about a poem (collection "feedbacks").
// Contact fields are nil when absent; anonymous feedback never carries them.
type Feedback struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PoemID    primitive.ObjectID `json:"poemId" bson:"poemId"`
	Name      *string            `json:"name,omitempty" bson:"name,omitempty"`
	Email     *string            `json:"email,omitempty" bson:"email,omitempty"`
	Phone     *string            `json:"phone,omitempty" bson:"phone,omitempty"`
	Message   string             `json:"message" bson:"message"`
	Anonymous bool               `json:"anonymous" bson:"anonymous"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// CreateInput is the accepted body of a submission.
type CreateInput struct {
	PoemID    string  `json:"poemId"`
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Message   string  `json:"message"`
	Anonymous bool    `json:"anonymous"`
}

// PoemRef is the resolved poem reference shown on the admin dashboard.
type PoemRef struct {
	ID    primitive.ObjectID `json:"id"`
	Title string             `json:"title"`
}

// AdminView is a feedback item with its poem reference resolved. Poem is nil
// when the referenced poem no longer exists.
type AdminView struct {
	ID        primitive.ObjectID `json:"id"`
	Poem      *PoemRef           `json:"poemId"`
	Name      *string            `json:"name,omitempty"`
	Email     *string            `json:"email,omitempty"`
	Phone     *string            `json:"phone,omitempty"`
	Message   string             `json:"message"`
	Anonymous bool               `json:"anonymous"`
	CreatedAt time.Time          `json:"createdAt"`
}

// View builds the admin view of f with the given reference.
func (f *Feedback) View(ref *PoemRef) AdminView {
	return AdminView{
		ID:        f.ID,
		Poem:      ref,
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		Message:   f.Message,
		Anonymous: f.Anonymous,
		CreatedAt: f.CreatedAt,
	}
}
