package resolver

import "github.com/google/uuid"

// Caller identifies who is making a call. It is passed explicitly to every
// operation that needs it; the zero value is an anonymous caller.
type Caller struct {
	UserID   uuid.UUID
	Username string
}

func Anonymous() Caller {
	return Caller{}
}

func (c Caller) Authenticated() bool {
	return c.UserID != uuid.Nil
}

// actor is the audit string stored in created_by/updated_by
func (c Caller) actor() string {
	return c.UserID.String()
}
