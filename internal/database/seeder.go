package database

import (
	"fmt"

	"zamar-backend/internal/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RolePermissions is the default permission set per role. Admin bypasses the
// permission check but still carries every permission for clarity.
var RolePermissions = map[string][]string{
	model.RoleAdmin: {
		model.PermManageSongs,
		model.PermModerateTestimonies,
		model.PermManageOrders,
		model.PermManageAds,
		model.PermViewDashboard,
		model.PermManagePayouts,
	},
	model.RoleArtist:   {model.PermManageSongs},
	model.RoleListener: {},
}

type AdminAccount struct {
	Name     string
	Email    string
	Password string
}

// SeedRBAC creates the roles and permissions. Safe to run repeatedly.
func SeedRBAC(db *gorm.DB) error {
	for _, name := range []string{model.RoleAdmin, model.RoleArtist, model.RoleListener} {
		role := model.Role{Name: name}
		if err := db.FirstOrCreate(&role, model.Role{Name: name}).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}

		perms := make([]model.Permission, 0, len(RolePermissions[name]))
		for _, p := range RolePermissions[name] {
			perm := model.Permission{Name: p}
			if err := db.FirstOrCreate(&perm, model.Permission{Name: p}).Error; err != nil {
				return fmt.Errorf("seed permission %s: %w", p, err)
			}
			perms = append(perms, perm)
		}
		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return fmt.Errorf("attach permissions to %s: %w", name, err)
		}
	}
	return nil
}

// SeedAdmin creates the first admin account, or resets its password when it
// already exists.
func SeedAdmin(db *gorm.DB, acc AdminAccount) (*model.User, error) {
	var adminRole model.Role
	if err := db.Where("name = ?", model.RoleAdmin).First(&adminRole).Error; err != nil {
		return nil, fmt.Errorf("load admin role: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := model.User{
		Name:         acc.Name,
		Email:        acc.Email,
		Password:     string(hashedPassword),
		RoleID:       adminRole.ID,
		ReferralCode: "ZAMARADM",
		IsActive:     true,
	}
	if err := db.FirstOrCreate(&admin, model.User{Email: acc.Email}).Error; err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	// Keep the password in sync with the configured one on reruns
	if err := db.Model(&admin).Update("password", string(hashedPassword)).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

var defaultAdPackages = []model.AdPackage{
	{Name: "Banner Week", Placement: model.PlacementBanner, DurationDays: 7, PriceCents: 2500},
	{Name: "Banner Month", Placement: model.PlacementBanner, DurationDays: 30, PriceCents: 8000},
	{Name: "Audio Spot Week", Placement: model.PlacementAudio, DurationDays: 7, PriceCents: 4000},
	{Name: "Sidebar Month", Placement: model.PlacementSidebar, DurationDays: 30, PriceCents: 5000},
}

func SeedAdPackages(db *gorm.DB) error {
	for _, p := range defaultAdPackages {
		p.IsActive = true
		if err := db.FirstOrCreate(&p, model.AdPackage{Name: p.Name}).Error; err != nil {
			return fmt.Errorf("seed ad package %s: %w", p.Name, err)
		}
	}
	return nil
}

var sampleSongs = []model.Song{
	{Title: "Still Waters", Artist: "Zamar Worship", Album: "Shepherd", Genre: "worship", Scripture: "Psalm 23:1-3", DurationSec: 245},
	{Title: "Morning Mercies", Artist: "Zamar Worship", Album: "Shepherd", Genre: "worship", Scripture: "Lamentations 3:22-23", DurationSec: 212},
	{Title: "Lamp Unto My Feet", Artist: "Grace Choir", Genre: "gospel", Scripture: "Psalm 119:105", DurationSec: 198},
}

// SeedSongs inserts published sample tracks without audio. Intended for local
// development only.
func SeedSongs(db *gorm.DB, uploadedBy uint) error {
	for _, s := range sampleSongs {
		s.IsPublished = true
		s.UploadedByID = uploadedBy
		if err := db.FirstOrCreate(&s, model.Song{Title: s.Title, Artist: s.Artist}).Error; err != nil {
			return fmt.Errorf("seed song %s: %w", s.Title, err)
		}
	}
	return nil
}

// SeedAll runs every seeder in order.
func SeedAll(db *gorm.DB, admin AdminAccount, withSamples bool, log *logrus.Logger) error {
	// 1. Roles and permissions
	if err := SeedRBAC(db); err != nil {
		return err
	}
	log.Info("roles and permissions seeded")

	// 2. First admin
	user, err := SeedAdmin(db, admin)
	if err != nil {
		return err
	}
	log.WithField("email", user.Email).Info("admin account seeded")

	// 3. Advertising packages
	if err := SeedAdPackages(db); err != nil {
		return err
	}
	log.Info("ad packages seeded")

	// 4. Sample catalogue
	if withSamples {
		if err := SeedSongs(db, user.ID); err != nil {
			return err
		}
		log.Info("sample songs seeded")
	}
	return nil
}
