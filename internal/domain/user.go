package domain

import "time"

// User is the domain model for registered accounts. Email is the login key
// and is unique at the store level.
type User struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string
	TermsAccepted bool
	IsActive      bool
	IsAdmin       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Profile is the externally visible subset of a user record. The password
// hash and authorization flags never leave the service.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// PublicProfile returns the fields safe to expose to the account owner.
func (u *User) PublicProfile() Profile {
	return Profile{ID: u.ID, Email: u.Email, Name: u.Name}
}
