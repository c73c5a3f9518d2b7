package employee

import "context"

// Profile is the display data attached to attendance rows in admin listings.
type Profile struct {
	ID        string  `json:"id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

type ProfileRepository interface {
	// ListByIDs returns the profiles found among ids; unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []string) ([]Profile, error)
}
