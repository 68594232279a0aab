// Package entity defines the domain types of the entries feature.
package entity

import "time"

// Entry is one slam-book page written about someone, owned by a single user.
type Entry struct {
	ID     string
	UserID string

	Name          string
	Nickname      string
	Birthday      string
	ContactNumber string
	Likes         *string
	Dislikes      *string
	About         string
	FavoriteMovie *string
	FavoriteFood  *string
	Message       string
	Tags          []string
	IsFavorite    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fields is the client-writable content of an entry.
// ID, UserID and the timestamps are never taken from a request.
type Fields struct {
	Name          string
	Nickname      string
	Birthday      string
	ContactNumber string
	Likes         *string
	Dislikes      *string
	About         string
	FavoriteMovie *string
	FavoriteFood  *string
	Message       string
	Tags          []string
	IsFavorite    bool
}

// ApplyTo replaces every content field of e with f.
func (f Fields) ApplyTo(e *Entry) {
	e.Name = f.Name
	e.Nickname = f.Nickname
	e.Birthday = f.Birthday
	e.ContactNumber = f.ContactNumber
	e.Likes = f.Likes
	e.Dislikes = f.Dislikes
	e.About = f.About
	e.FavoriteMovie = f.FavoriteMovie
	e.FavoriteFood = f.FavoriteFood
	e.Message = f.Message
	e.Tags = append([]string(nil), f.Tags...)
	e.IsFavorite = f.IsFavorite
}

// Statistics summarizes one user's entries.
type Statistics struct {
	Total     int64            `json:"total"`
	Favorites int64            `json:"favorites"`
	ByTag     map[string]int64 `json:"by_tag"`
}

// NewStatistics counts entries, favorites and tag occurrences.
func NewStatistics(entries []*Entry) *Statistics {
	s := &Statistics{ByTag: map[string]int64{}}
	for _, e := range entries {
		s.Total++
		if e.IsFavorite {
			s.Favorites++
		}
		for _, tag := range e.Tags {
			s.ByTag[tag]++
		}
	}
	return s
}
