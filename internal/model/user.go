package model

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"unique;not null"`
	Password     string `json:"-"`
	RoleID       uint   `json:"role_id"`
	ReferralCode string `json:"referral_code" gorm:"unique;size:16"`
	ReferredByID *uint  `json:"referred_by_id"` // Self-reference
	AvatarURL    string `json:"avatar_url"`
	Bio          string `json:"bio"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	Role       Role  `json:"role" gorm:"foreignKey:RoleID"`
	ReferredBy *User `json:"-" gorm:"foreignKey:ReferredByID"`
}
