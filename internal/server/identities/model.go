// Package identities owns user identity records and the credential
// operations (sign-up, sign-in) performed on them.
package identities

import "time"

// UserIdentity is a persisted identity record. Handle and Email are globally
// unique; the backing store enforces both at write time. PasswordHash never
// crosses the graph boundary: the schema has no field for it and no resolver
// returns it.
type UserIdentity struct {
	ID           string
	Handle       string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}
