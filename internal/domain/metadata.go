package domain

import "time"

// RepositoryMetadata is the subset of platform repository fields the scorer consumes.
// Gateways build it once per fetch; absent platform fields keep their zero value
// (no push date, no stars, empty description and language).
type RepositoryMetadata struct {
	Archived    bool
	Fork        bool
	PushedAt    *time.Time
	Stars       int
	Description string
	Language    string
	CreatedAt   *time.Time
}

// Release describes the latest published release of a repository.
type Release struct {
	TagName     string     `json:"tag_name"`
	Name        string     `json:"name,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	URL         string     `json:"url,omitempty"`
}
