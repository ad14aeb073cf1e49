package application

import (
	"townbank/domain/entities"
)

// TokenIssuer issues bearer tokens for authenticated accounts
type TokenIssuer interface {
	GenerateToken(accountID int64, role entities.Role) (string, error)
}
