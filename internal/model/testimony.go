package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	TestimonyPending  = "PENDING"
	TestimonyApproved = "APPROVED"
	TestimonyRejected = "REJECTED"
)

type Testimony struct {
	gorm.Model
	UserID       uint       `json:"user_id" gorm:"index"`
	SongID       *uint      `json:"song_id"`
	Title        string     `json:"title"`
	Body         string     `json:"body" gorm:"type:text"`
	Status       string     `json:"status" gorm:"default:PENDING;index"`
	ReviewedByID *uint      `json:"reviewed_by_id"`
	ReviewedAt   *time.Time `json:"reviewed_at"`

	User User  `json:"user" gorm:"foreignKey:UserID"`
	Song *Song `json:"song,omitempty" gorm:"foreignKey:SongID"`
}
