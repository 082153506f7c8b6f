package repository

import (
	"zamar-backend/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	GetAll() ([]model.Role, error)
	GetByID(id uint) (*model.Role, error)
	GetByName(name string) (*model.Role, error)
	Create(role *model.Role, permissionNames []string) error
	SetPermissions(role *model.Role, permissionNames []string) error
	HasPermission(roleName, permission string) (bool, error)
	GetAllPermissions() ([]model.Permission, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db}
}

func (r *roleRepository) GetAll() ([]model.Role, error) {
	var roles []model.Role
	err := r.db.Preload("Permissions").Find(&roles).Error
	return roles, err
}

func (r *roleRepository) GetByID(id uint) (*model.Role, error) {
	var role model.Role
	err := r.db.Preload("Permissions").First(&role, id).Error
	return &role, err
}

func (r *roleRepository) GetByName(name string) (*model.Role, error) {
	var role model.Role
	err := r.db.Preload("Permissions").Where("name = ?", name).First(&role).Error
	return &role, err
}

func (r *roleRepository) Create(role *model.Role, permissionNames []string) error {
	// 1. Create the role
	if err := r.db.Create(role).Error; err != nil {
		return err
	}
	// 2. Assign permissions
	if len(permissionNames) > 0 {
		return r.SetPermissions(role, permissionNames)
	}
	return nil
}

func (r *roleRepository) SetPermissions(role *model.Role, permissionNames []string) error {
	var perms []model.Permission
	if err := r.db.Where("name IN ?", permissionNames).Find(&perms).Error; err != nil {
		return err
	}
	// Replace existing relations
	return r.db.Model(role).Association("Permissions").Replace(perms)
}

func (r *roleRepository) HasPermission(roleName, permission string) (bool, error) {
	var count int64
	err := r.db.Table("role_permissions").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("roles.name = ? AND permissions.name = ? AND roles.deleted_at IS NULL", roleName, permission).
		Count(&count).Error
	return count > 0, err
}

func (r *roleRepository) GetAllPermissions() ([]model.Permission, error) {
	var perms []model.Permission
	err := r.db.Find(&perms).Error
	return perms, err
}
