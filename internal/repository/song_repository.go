package repository

import (
	"strings"

	"zamar-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SongFilter struct {
	Search        string
	Genre         string
	PublishedOnly bool
	Page          int
	Limit         int
}

type SongRepository interface {
	List(filter SongFilter) ([]model.Song, int64, error)
	GetByID(id uint) (*model.Song, error)
	GetPublishedByID(id uint) (*model.Song, error)
	Create(song *model.Song) error
	Update(song *model.Song) error
	Delete(id uint) error
	Genres() ([]string, error)
	RecordPlay(songID, userID uint) error
	AddFavorite(userID, songID uint) error
	RemoveFavorite(userID, songID uint) error
	ListFavorites(userID uint) ([]model.Favorite, error)
	ListHistory(userID uint, limit int) ([]model.ListenHistory, error)
	Count() (int64, error)
	TotalPlays() (int64, error)
}

type songRepository struct {
	db *gorm.DB
}

func NewSongRepository(db *gorm.DB) SongRepository {
	return &songRepository{db}
}

func (r *songRepository) List(filter SongFilter) ([]model.Song, int64, error) {
	var songs []model.Song
	var total int64

	query := r.db.Model(&model.Song{})
	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if filter.Genre != "" {
		query = query.Where("genre = ?", filter.Genre)
	}
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(artist) LIKE ? OR LOWER(album) LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	err := query.Order("created_at desc").Offset((page - 1) * limit).Limit(limit).Find(&songs).Error
	return songs, total, err
}

func (r *songRepository) GetByID(id uint) (*model.Song, error) {
	var song model.Song
	err := r.db.First(&song, id).Error
	return &song, err
}

func (r *songRepository) GetPublishedByID(id uint) (*model.Song, error) {
	var song model.Song
	err := r.db.Where("is_published = ?", true).First(&song, id).Error
	return &song, err
}

func (r *songRepository) Create(song *model.Song) error {
	return r.db.Create(song).Error
}

func (r *songRepository) Update(song *model.Song) error {
	return r.db.Save(song).Error
}

func (r *songRepository) Delete(id uint) error {
	return r.db.Delete(&model.Song{}, id).Error
}

func (r *songRepository) Genres() ([]string, error) {
	var genres []string
	err := r.db.Model(&model.Song{}).
		Where("is_published = ? AND genre <> ''", true).
		Distinct().Order("genre asc").Pluck("genre", &genres).Error
	return genres, err
}

func (r *songRepository) RecordPlay(songID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Song{}).Where("id = ?", songID).
			UpdateColumn("play_count", gorm.Expr("play_count + ?", 1)).Error; err != nil {
			return err
		}
		return tx.Create(&model.ListenHistory{UserID: userID, SongID: songID}).Error
	})
}

func (r *songRepository) AddFavorite(userID, songID uint) error {
	// Favouriting twice is a no-op
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Favorite{UserID: userID, SongID: songID}).Error
}

func (r *songRepository) RemoveFavorite(userID, songID uint) error {
	return r.db.Where("user_id = ? AND song_id = ?", userID, songID).Delete(&model.Favorite{}).Error
}

func (r *songRepository) ListFavorites(userID uint) ([]model.Favorite, error) {
	var favs []model.Favorite
	err := r.db.Preload("Song").Where("user_id = ?", userID).Order("created_at desc").Find(&favs).Error
	return favs, err
}

func (r *songRepository) ListHistory(userID uint, limit int) ([]model.ListenHistory, error) {
	var history []model.ListenHistory
	_, limit = normalizePage(1, limit)
	err := r.db.Preload("Song").Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").Limit(limit).Find(&history).Error
	return history, err
}

func (r *songRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Song{}).Where("is_published = ?", true).Count(&count).Error
	return count, err
}

func (r *songRepository) TotalPlays() (int64, error) {
	var total int64
	err := r.db.Model(&model.Song{}).Select("COALESCE(SUM(play_count), 0)").Scan(&total).Error
	return total, err
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
