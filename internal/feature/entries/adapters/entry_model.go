// Package adapters provides the gorm-backed repository of the entries feature.
package adapters

import (
	"time"

	"slambook_backend/internal/feature/entries/domain/entity"
)

// EntryModel is the persisted form of entity.Entry. Tags are stored as a JSON
// array in a text column so the same schema works on PostgreSQL and SQLite.
type EntryModel struct {
	ID            string    `gorm:"primaryKey;size:36"`
	UserID        string    `gorm:"size:36;not null;index:idx_entries_user_created,priority:1"`
	Name          string    `gorm:"size:255;not null"`
	Nickname      string    `gorm:"size:255;not null"`
	Birthday      string    `gorm:"size:50;not null"`
	ContactNumber string    `gorm:"size:50;not null"`
	Likes         *string   `gorm:"type:text"`
	Dislikes      *string   `gorm:"type:text"`
	About         string    `gorm:"type:text;not null"`
	FavoriteMovie *string   `gorm:"size:255"`
	FavoriteFood  *string   `gorm:"size:255"`
	Message       string    `gorm:"type:text;not null"`
	Tags          []string  `gorm:"type:text;serializer:json"`
	IsFavorite    bool      `gorm:"not null"`
	CreatedAt     time.Time `gorm:"index:idx_entries_user_created,priority:2"`
	UpdatedAt     time.Time
}

// TableName pins the table name used by raw statements elsewhere.
func (EntryModel) TableName() string { return "entries" }

func toModel(e *entity.Entry) *EntryModel {
	return &EntryModel{
		ID:            e.ID,
		UserID:        e.UserID,
		Name:          e.Name,
		Nickname:      e.Nickname,
		Birthday:      e.Birthday,
		ContactNumber: e.ContactNumber,
		Likes:         e.Likes,
		Dislikes:      e.Dislikes,
		About:         e.About,
		FavoriteMovie: e.FavoriteMovie,
		FavoriteFood:  e.FavoriteFood,
		Message:       e.Message,
		Tags:          e.Tags,
		IsFavorite:    e.IsFavorite,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func (m *EntryModel) toEntity() *entity.Entry {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return &entity.Entry{
		ID:            m.ID,
		UserID:        m.UserID,
		Name:          m.Name,
		Nickname:      m.Nickname,
		Birthday:      m.Birthday,
		ContactNumber: m.ContactNumber,
		Likes:         m.Likes,
		Dislikes:      m.Dislikes,
		About:         m.About,
		FavoriteMovie: m.FavoriteMovie,
		FavoriteFood:  m.FavoriteFood,
		Message:       m.Message,
		Tags:          tags,
		IsFavorite:    m.IsFavorite,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
