package models

import "time"

// Skill is a per-collection registration of a remote SKILL.md pointer plus
// the most recently observed fetch result.
//
// SourceURL and Alias are fixed at registration. The Last* fields are the
// cached fetch state: LastContent only ever advances on a successful 200
// fetch, never on a 304 or a failed attempt ("last known good").
// LastFetchStatus and LastFetchError always reflect the most recent attempt,
// even when that attempt failed and cached content is still being served.
type Skill struct {
	ID           string
	CollectionID string
	SourceURL    string
	Alias        *string
	Name         string
	Description  string
	CreatedAt    time.Time

	LastETag        *string
	LastContent     *string
	LastFetchedAt   *time.Time
	LastFetchStatus *int
	LastFetchError  *string
}

// FetchUpdate is the partial update applied to a Skill row after a fetch
// attempt. Pointer fields mean "set to this value" when non-nil and "leave
// the stored value untouched" when nil. FetchStatus and FetchError have no
// unchanged state: they are overwritten on every attempt so the row always
// records the outcome of the last revalidation, successful or not.
type FetchUpdate struct {
	ETag        *string
	Content     *string
	Name        *string
	Description *string

	FetchedAt   time.Time
	FetchStatus int
	FetchError  *string
}
