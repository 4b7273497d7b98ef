package models

import "time"

// Collection is a tenant: an anonymous bucket of skill pointers unlocked by
// possession of a bearer token. Only the salted digest of the token is
// stored; the raw token is shown exactly once at creation.
type Collection struct {
	ID         string
	TokenHash  string
	CreatedAt  time.Time
	LastUsedAt *time.Time
}
