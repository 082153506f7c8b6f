package model

import "gorm.io/gorm"

const (
	RoleAdmin    = "admin"
	RoleArtist   = "artist"
	RoleListener = "listener"
)

const (
	PermManageSongs         = "manage_songs"
	PermModerateTestimonies = "moderate_testimonies"
	PermManageOrders        = "manage_orders"
	PermManageAds           = "manage_ads"
	PermViewDashboard       = "view_dashboard"
	PermManagePayouts       = "manage_payouts"
)

type Role struct {
	gorm.Model
	Name        string       `json:"name" gorm:"unique;not null"`
	Permissions []Permission `json:"permissions" gorm:"many2many:role_permissions;"`
}

type Permission struct {
	gorm.Model
	Name string `json:"name" gorm:"unique;not null"`
}
