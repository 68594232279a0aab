package dto

import (
	"time"

	"slambook_backend/internal/feature/entries/domain/entity"
)

// EntryRes is the JSON form of an entry.
type EntryRes struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Nickname      string    `json:"nickname"`
	Birthday      string    `json:"birthday"`
	ContactNumber string    `json:"contact_number"`
	Likes         *string   `json:"likes"`
	Dislikes      *string   `json:"dislikes"`
	FavoriteMovie *string   `json:"favorite_movie"`
	FavoriteFood  *string   `json:"favorite_food"`
	About         string    `json:"about"`
	Message       string    `json:"message"`
	Tags          []string  `json:"tags"`
	IsFavorite    bool      `json:"is_favorite"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewEntryRes converts an entity. Tags are always a JSON array.
func NewEntryRes(e *entity.Entry) EntryRes {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return EntryRes{
		ID:            e.ID,
		UserID:        e.UserID,
		Name:          e.Name,
		Nickname:      e.Nickname,
		Birthday:      e.Birthday,
		ContactNumber: e.ContactNumber,
		Likes:         e.Likes,
		Dislikes:      e.Dislikes,
		FavoriteMovie: e.FavoriteMovie,
		FavoriteFood:  e.FavoriteFood,
		About:         e.About,
		Message:       e.Message,
		Tags:          tags,
		IsFavorite:    e.IsFavorite,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// NewEntryListRes converts a page of entries; an empty page is [] not null.
func NewEntryListRes(entries []*entity.Entry) []EntryRes {
	out := make([]EntryRes, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewEntryRes(e))
	}
	return out
}

// StatisticsRes is the body of GET /entries/stats/statistics.
type StatisticsRes struct {
	Total     int64            `json:"total"`
	Favorites int64            `json:"favorites"`
	ByTag     map[string]int64 `json:"by_tag"`
}

// NewStatisticsRes converts statistics; by_tag is always an object.
func NewStatisticsRes(s *entity.Statistics) StatisticsRes {
	byTag := s.ByTag
	if byTag == nil {
		byTag = map[string]int64{}
	}
	return StatisticsRes{Total: s.Total, Favorites: s.Favorites, ByTag: byTag}
}
