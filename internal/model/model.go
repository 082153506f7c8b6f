package model

// All lists every persisted model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Permission{},
		&Role{},
		&User{},
		&Song{},
		&Favorite{},
		&ListenHistory{},
		&Testimony{},
		&CustomSongOrder{},
		&AdPackage{},
		&AdCampaign{},
		&Payment{},
		&ReferralEarning{},
		&WebhookEvent{},
	}
}
