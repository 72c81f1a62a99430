package model

import "time"

// MediaType is the attachment type reported by the X API.
type MediaType string

const (
	MediaPhoto       MediaType = "photo"
	MediaVideo       MediaType = "video"
	MediaAnimatedGIF MediaType = "animated_gif"
)

// Media is one attachment of a tweet.
type Media struct {
	Kind MediaType
	URL  string // only meaningful for photos
}

// User is the subset of X user fields needed to resolve a handle.
type User struct {
	ID       string
	Username string
	Name     string
}

// Tweet represents the subset of X tweet fields the renderer needs.
type Tweet struct {
	ID           string
	AuthorID     string
	Text         string
	CreatedAt    time.Time
	RetweetCount int
	LikeCount    int
	Media        []Media
}

// Content is a classified tweet, ready to be drawn.
// Photo is nil for text-only rendering.
type Content struct {
	Text         string
	Photo        *Media
	RetweetCount int
	LikeCount    int
}

// IsPhoto reports whether the body is drawn from the attached photo.
func (c Content) IsPhoto() bool { return c.Photo != nil }

// Variant names the body variant, used for logs and metric labels.
func (c Content) Variant() string {
	if c.IsPhoto() {
		return "photo"
	}
	return "text"
}
