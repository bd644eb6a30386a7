package domain

import (
	"context"
	"time"
)

// Student mirrors an identity-provider subject into the primary store so
// that certificate verification can denormalize the display name even
// after tokens expire. ID is the IdP subject and is the single canonical
// identifier; the store never mints its own.
// swagger:model Student
type Student struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	RollNumber *string   `json:"roll_number,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StudentRepository defines storage for mirrored student identities.
type StudentRepository interface {
	Upsert(ctx context.Context, student *Student) error
	GetByID(ctx context.Context, id string) (*Student, error)
	Count(ctx context.Context) (int, error)
}

// Identity is the result of verifying a bearer token: the subject
// identifier plus the display claims carried by the token.
type Identity struct {
	Subject    string
	Name       string
	Email      string
	RollNumber string
}

// TokenVerifier verifies a bearer token from the external identity
// provider and returns the caller's identity.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// TokenIssuer issues tokens compatible with TokenVerifier. Used by
// development tooling and tests.
type TokenIssuer interface {
	Issue(identity *Identity, expiry time.Duration) (string, error)
}
