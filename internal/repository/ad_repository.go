package repository

import (
	"time"

	"zamar-backend/internal/model"

	"gorm.io/gorm"
)

type AdRepository interface {
	ListPackages() ([]model.AdPackage, error)
	GetPackage(id uint) (*model.AdPackage, error)
	CreateCampaign(c *model.AdCampaign) error
	GetCampaign(id uint) (*model.AdCampaign, error)
	ListByAdvertiser(advertiserID uint) ([]model.AdCampaign, error)
	ListAll(status string) ([]model.AdCampaign, error)
	ListActive(placement string, now time.Time) ([]model.AdCampaign, error)
	UpdateCampaign(c *model.AdCampaign) error
	IncrementImpressions(id uint, now time.Time) (bool, error)
	IncrementClicks(id uint) error
	ExpirePending(createdBefore time.Time) (int64, error)
	ExpireEnded(now time.Time) (int64, error)
	CountActive(now time.Time) (int64, error)
}

type adRepository struct {
	db *gorm.DB
}

func NewAdRepository(db *gorm.DB) AdRepository {
	return &adRepository{db}
}

func (r *adRepository) ListPackages() ([]model.AdPackage, error) {
	var pkgs []model.AdPackage
	err := r.db.Where("is_active = ?", true).Order("price_cents asc").Find(&pkgs).Error
	return pkgs, err
}

func (r *adRepository) GetPackage(id uint) (*model.AdPackage, error) {
	var pkg model.AdPackage
	err := r.db.Where("is_active = ?", true).First(&pkg, id).Error
	return &pkg, err
}

func (r *adRepository) CreateCampaign(c *model.AdCampaign) error {
	return r.db.Omit("Package").Create(c).Error
}

func (r *adRepository) GetCampaign(id uint) (*model.AdCampaign, error) {
	var c model.AdCampaign
	err := r.db.Preload("Package").First(&c, id).Error
	return &c, err
}

func (r *adRepository) ListByAdvertiser(advertiserID uint) ([]model.AdCampaign, error) {
	var list []model.AdCampaign
	err := r.db.Preload("Package").Where("advertiser_id = ?", advertiserID).Order("created_at desc").Find(&list).Error
	return list, err
}

func (r *adRepository) ListAll(status string) ([]model.AdCampaign, error) {
	var list []model.AdCampaign
	query := r.db.Preload("Package").Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&list).Error
	return list, err
}

func (r *adRepository) ListActive(placement string, now time.Time) ([]model.AdCampaign, error) {
	var list []model.AdCampaign
	query := r.db.Where("status = ? AND starts_at <= ? AND ends_at > ?", model.CampaignActive, now, now)
	if placement != "" {
		query = query.Where("placement = ?", placement)
	}
	err := query.Order("starts_at desc").Find(&list).Error
	return list, err
}

func (r *adRepository) UpdateCampaign(c *model.AdCampaign) error {
	return r.db.Omit("Package").Save(c).Error
}

// IncrementImpressions counts a view of a live campaign and reports whether
// one was counted.
func (r *adRepository) IncrementImpressions(id uint, now time.Time) (bool, error) {
	res := r.db.Model(&model.AdCampaign{}).
		Where("id = ? AND status = ? AND starts_at <= ? AND ends_at > ?", id, model.CampaignActive, now, now).
		UpdateColumn("impressions", gorm.Expr("impressions + ?", 1))
	return res.RowsAffected > 0, res.Error
}

func (r *adRepository) IncrementClicks(id uint) error {
	return r.db.Model(&model.AdCampaign{}).Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", 1)).Error
}

func (r *adRepository) ExpirePending(createdBefore time.Time) (int64, error) {
	res := r.db.Model(&model.AdCampaign{}).
		Where("status = ? AND created_at < ?", model.CampaignPendingPayment, createdBefore).
		Update("status", model.CampaignExpired)
	return res.RowsAffected, res.Error
}

func (r *adRepository) ExpireEnded(now time.Time) (int64, error) {
	res := r.db.Model(&model.AdCampaign{}).
		Where("status IN ? AND ends_at <= ?", []string{model.CampaignActive, model.CampaignPaused}, now).
		Update("status", model.CampaignExpired)
	return res.RowsAffected, res.Error
}

func (r *adRepository) CountActive(now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.AdCampaign{}).
		Where("status = ? AND starts_at <= ? AND ends_at > ?", model.CampaignActive, now, now).
		Count(&count).Error
	return count, err
}
