package entities

import (
	"time"
)

// Role is the coarse authorization tier of an account
type Role string

const (
	RoleUser    Role = "user"
	RoleMayor   Role = "mayor"
	RoleCreator Role = "creator"
)

// rank orders roles; unknown roles rank below user
func (r Role) rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleMayor:
		return 2
	case RoleCreator:
		return 3
	default:
		return 0
	}
}

// IsValid reports whether the role is one of the three known tiers
func (r Role) IsValid() bool {
	return r.rank() > 0
}

// AtLeast reports whether r meets the minimum role
func (r Role) AtLeast(minimum Role) bool {
	return r.IsValid() && r.rank() >= minimum.rank()
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Job is a salaried assignment paid at the end of every day
type Job struct {
	Title  string `db:"job_title"`
	Salary int64  `db:"job_salary"`
}

// Account represents a player or staff identity holding a balance
type Account struct {
	ID           int64     `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	Nickname     string    `db:"nickname"`
	NicknameSet  bool      `db:"nickname_set"`
	Balance      int64     `db:"balance"`
	Role         Role      `db:"role"`
	Job          *Job      `db:"-"` // Populated from job_title/job_salary
	CasinoStaff  bool      `db:"casino_staff"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// HasSufficientBalance checks if the account can cover an amount
func (a *Account) HasSufficientBalance(amount int64) bool {
	return a.Balance >= amount
}

// IsEmployed reports whether the account has a salaried job
func (a *Account) IsEmployed() bool {
	return a.Job != nil && a.Job.Salary > 0
}

// HasRole checks the account role against a minimum tier
func (a *Account) HasRole(minimum Role) bool {
	return a.Role.AtLeast(minimum)
}

// CanChangeNickname reports whether the default nickname can still be replaced
func (a *Account) CanChangeNickname() bool {
	return !a.NicknameSet
}

// CalculateNewBalance calculates what the balance would be after a change
func (a *Account) CalculateNewBalance(changeAmount int64) int64 {
	return a.Balance + changeAmount
}
