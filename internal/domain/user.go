package domain

import "time"

// User is a stored credential record. PasswordHash never leaves the server.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	IsAdmin      bool      `db:"is_admin" json:"isAdmin"`
	CreatedOn    time.Time `db:"created_on" json:"createdOn"`
}

// Identity returns the claims-facing view of the user.
func (u *User) Identity() Identity {
	return Identity{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
	}
}
