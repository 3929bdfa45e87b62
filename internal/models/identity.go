package models

import "github.com/julianstephens/habitgarden/internal/constants"

// Identity is who the garden belongs to. UserID is the email when signed in
// and "guest" otherwise; it selects the storage namespace.
type Identity struct {
	UserID        string
	Email         string
	Authenticated bool
}

// Guest is the anonymous identity.
func Guest() Identity {
	return Identity{UserID: constants.GuestUserID}
}

// Account returns the identity of a signed-in user.
func Account(email string) Identity {
	return Identity{UserID: email, Email: email, Authenticated: true}
}
