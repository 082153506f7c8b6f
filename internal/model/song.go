package model

import (
	"time"

	"gorm.io/gorm"
)

type Song struct {
	gorm.Model
	Title        string `json:"title" gorm:"not null;index"`
	Artist       string `json:"artist" gorm:"index"`
	Album        string `json:"album"`
	Genre        string `json:"genre" gorm:"index"`
	Scripture    string `json:"scripture"` // e.g. "Psalm 23:1-4"
	Lyrics       string `json:"lyrics" gorm:"type:text"`
	DurationSec  int    `json:"duration_sec"`
	AudioKey     string `json:"audio_key"`
	CoverKey     string `json:"cover_key"`
	IsPublished  bool   `json:"is_published" gorm:"default:false"`
	PlayCount    int64  `json:"play_count" gorm:"default:0"`
	UploadedByID uint   `json:"uploaded_by_id"`

	// Filled by the handler, never stored
	AudioURL string `json:"audio_url" gorm:"-"`
	CoverURL string `json:"cover_url" gorm:"-"`
}

type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_favorite_user_song"`
	SongID    uint      `json:"song_id" gorm:"uniqueIndex:idx_favorite_user_song"`
	CreatedAt time.Time `json:"created_at"`

	Song Song `json:"song" gorm:"foreignKey:SongID"`
}

type ListenHistory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	SongID    uint      `json:"song_id"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Song Song `json:"song" gorm:"foreignKey:SongID"`
}

func (ListenHistory) TableName() string {
	return "listen_history"
}
