package repository

import (
	"zamar-backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByReferralCode(code string) (*model.User, error)
	FindByIDs(ids []uint) ([]model.User, error)
	Update(user *model.User) error
	ReferralCodeExists(code string) (bool, error)
	ReferrerChain(userID uint, depth int) ([]model.User, error)
	CountReferred(referrerID uint) (int64, error)
	ListReferred(referrerID uint) ([]model.User, error)
	Count() (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Role").First(&user, id).Error
	return &user, err
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	// Preload Role so login can put the role name in the token
	err := r.db.Preload("Role").Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *userRepository) FindByReferralCode(code string) (*model.User, error) {
	var user model.User
	err := r.db.Where("referral_code = ?", code).First(&user).Error
	return &user, err
}

func (r *userRepository) FindByIDs(ids []uint) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) Update(user *model.User) error {
	return r.db.Omit("Role", "ReferredBy").Save(user).Error
}

func (r *userRepository) ReferralCodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("referral_code = ?", code).Count(&count).Error
	return count > 0, err
}

// ReferrerChain walks ReferredByID upwards from userID and returns at most
// depth ancestors, nearest first. The walk stops at a missing link or when a
// user reappears, so a corrupted cycle cannot loop.
func (r *userRepository) ReferrerChain(userID uint, depth int) ([]model.User, error) {
	var chain []model.User
	seen := map[uint]bool{userID: true}

	var current model.User
	if err := r.db.First(&current, userID).Error; err != nil {
		return nil, err
	}

	for len(chain) < depth && current.ReferredByID != nil {
		parentID := *current.ReferredByID
		if seen[parentID] {
			break
		}
		var parent model.User
		err := r.db.Limit(1).Find(&parent, parentID).Error
		if err != nil {
			return nil, err
		}
		if parent.ID == 0 {
			break
		}
		seen[parentID] = true
		chain = append(chain, parent)
		current = parent
	}
	return chain, nil
}

func (r *userRepository) CountReferred(referrerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("referred_by_id = ?", referrerID).Count(&count).Error
	return count, err
}

func (r *userRepository) ListReferred(referrerID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.Where("referred_by_id = ?", referrerID).Order("created_at desc").Find(&users).Error
	return users, err
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
