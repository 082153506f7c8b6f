package repository

import (
	"zamar-backend/internal/model"

	"gorm.io/gorm"
)

type TestimonyRepository interface {
	Create(t *model.Testimony) error
	GetByID(id uint) (*model.Testimony, error)
	ListApproved(page, limit int) ([]model.Testimony, int64, error)
	ListByStatus(status string) ([]model.Testimony, error)
	ListByUser(userID uint) ([]model.Testimony, error)
	Update(t *model.Testimony) error
	Delete(id uint) error
	CountByStatus(status string) (int64, error)
}

type testimonyRepository struct {
	db *gorm.DB
}

func NewTestimonyRepository(db *gorm.DB) TestimonyRepository {
	return &testimonyRepository{db}
}

func (r *testimonyRepository) Create(t *model.Testimony) error {
	return r.db.Create(t).Error
}

func (r *testimonyRepository) GetByID(id uint) (*model.Testimony, error) {
	var t model.Testimony
	err := r.db.Preload("User").Preload("Song").First(&t, id).Error
	return &t, err
}

func (r *testimonyRepository) ListApproved(page, limit int) ([]model.Testimony, int64, error) {
	var list []model.Testimony
	var total int64

	query := r.db.Model(&model.Testimony{}).Where("status = ?", model.TestimonyApproved)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit = normalizePage(page, limit)
	err := query.Preload("User", publicAuthor).Preload("Song").
		Order("reviewed_at desc").Order("id desc").
		Offset((page - 1) * limit).Limit(limit).Find(&list).Error
	return list, total, err
}

// publicAuthor limits a preloaded author to the columns shown publicly.
func publicAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name")
}

func (r *testimonyRepository) ListByStatus(status string) ([]model.Testimony, error) {
	var list []model.Testimony
	query := r.db.Preload("User").Preload("Song").Order("created_at asc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&list).Error
	return list, err
}

func (r *testimonyRepository) ListByUser(userID uint) ([]model.Testimony, error) {
	var list []model.Testimony
	err := r.db.Preload("Song").Where("user_id = ?", userID).Order("created_at desc").Find(&list).Error
	return list, err
}

func (r *testimonyRepository) Update(t *model.Testimony) error {
	return r.db.Omit("User", "Song").Save(t).Error
}

func (r *testimonyRepository) Delete(id uint) error {
	return r.db.Delete(&model.Testimony{}, id).Error
}

func (r *testimonyRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Testimony{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
