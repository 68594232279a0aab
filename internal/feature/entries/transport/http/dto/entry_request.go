// Package dto defines data transfer objects for the entries feature's HTTP transport layer.
package dto

import "slambook_backend/internal/feature/entries/domain/entity"

// EntryReq is the body of POST /entries and PUT /entries/{id}.
// PUT replaces every field, so omitted optional fields are cleared and an
// omitted is_favorite becomes false.
// Required strings are pointers: the key must be present, but "" is accepted.
type EntryReq struct {
	Name          *string  `json:"name" binding:"required,max=255"`
	Nickname      *string  `json:"nickname" binding:"required,max=255"`
	Birthday      *string  `json:"birthday" binding:"required,max=50"`
	ContactNumber *string  `json:"contact_number" binding:"required,max=50"`
	Likes         *string  `json:"likes"`
	Dislikes      *string  `json:"dislikes"`
	FavoriteMovie *string  `json:"favorite_movie" binding:"omitempty,max=255"`
	FavoriteFood  *string  `json:"favorite_food" binding:"omitempty,max=255"`
	About         *string  `json:"about" binding:"required"`
	Message       *string  `json:"message" binding:"required"`
	Tags          []string `json:"tags"`
	IsFavorite    *bool    `json:"is_favorite"`
}

// Fields converts the request into the domain's writable field set.
func (r EntryReq) Fields() entity.Fields {
	f := entity.Fields{
		Name:          deref(r.Name),
		Nickname:      deref(r.Nickname),
		Birthday:      deref(r.Birthday),
		ContactNumber: deref(r.ContactNumber),
		Likes:         r.Likes,
		Dislikes:      r.Dislikes,
		FavoriteMovie: r.FavoriteMovie,
		FavoriteFood:  r.FavoriteFood,
		About:         deref(r.About),
		Message:       deref(r.Message),
		Tags:          r.Tags,
	}
	if r.IsFavorite != nil {
		f.IsFavorite = *r.IsFavorite
	}
	return f
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ListQuery holds the pagination parameters of GET /entries.
type ListQuery struct {
	Skip  int `form:"skip,default=0" binding:"min=0"`
	Limit int `form:"limit,default=100" binding:"min=0"`
}
