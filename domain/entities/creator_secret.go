package entities

import (
	"time"

	"github.com/google/uuid"
)

// CreatorSecret is a single-use enrollment token for the creator role.
// Only a bcrypt hash of the secret part is stored.
type CreatorSecret struct {
	ID         uuid.UUID  `db:"id"`
	SecretHash string     `db:"secret_hash"`
	CreatedBy  *int64     `db:"created_by"`
	ConsumedBy *int64     `db:"consumed_by"`
	CreatedAt  time.Time  `db:"created_at"`
	ConsumedAt *time.Time `db:"consumed_at"`
	RevokedAt  *time.Time `db:"revoked_at"`
}

// IsUsable reports whether the secret can still be exchanged for the role
func (s *CreatorSecret) IsUsable() bool {
	return s.ConsumedAt == nil && s.RevokedAt == nil
}

// IssuedCreatorSecret carries the plaintext token, shown exactly once
type IssuedCreatorSecret struct {
	Secret *CreatorSecret
	Token  string
}
