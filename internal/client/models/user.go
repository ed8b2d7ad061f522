// Package models defines client-side data models mirroring the fileshare
// backend entities. The server is the source of truth; local copies are
// advisory and may go stale between refreshes.
package models

// User is the authenticated account identity.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`

	// StorageUsed is the number of bytes the account currently occupies.
	// The data store adjusts it locally by byte deltas after uploads and
	// deletes; it never goes below zero.
	StorageUsed int64 `json:"storageUsed"`
}

// Credentials is the login/register response: a bearer token plus the
// account it belongs to.
type Credentials struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
