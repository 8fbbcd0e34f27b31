package repository

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleRepository defines data access for roles, permissions and their grants
type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	Update(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Role, error)
	FindByName(ctx context.Context, name string) (*model.Role, error)
	ListAll(ctx context.Context) ([]model.Role, error)

	CreatePermission(ctx context.Context, perm *model.Permission) error
	DeletePermission(ctx context.Context, id uuid.UUID) error
	FindPermissionByID(ctx context.Context, id uuid.UUID) (*model.Permission, error)
	ListPermissions(ctx context.Context) ([]model.Permission, error)

	Grant(ctx context.Context, roleID, permissionID uuid.UUID) (*model.RolePermission, error)
	Revoke(ctx context.Context, roleID, permissionID uuid.UUID) error
	ListGrants(ctx context.Context, roleID uuid.UUID) ([]model.RolePermission, error)
	GrantExists(ctx context.Context, roleID, permissionID uuid.UUID) (bool, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	return GetDB(ctx, r.db).Create(role).Error
}

func (r *roleRepository) Update(ctx context.Context, role *model.Role) error {
	return GetDB(ctx, r.db).Save(role).Error
}

// Delete removes the role and every grant that references it. Runs inside the
// caller's transaction context.
func (r *roleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("role_id = ?", id).Delete(&model.RolePermission{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Role{}).Error
}

func (r *roleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: role with id %s does not exist", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).Where("lower(name) = lower(?)", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: role '%s' does not exist", model.ErrNotFound, name)
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) ListAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := GetDB(ctx, r.db).Order("name asc").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) CreatePermission(ctx context.Context, perm *model.Permission) error {
	return GetDB(ctx, r.db).Create(perm).Error
}

// DeletePermission removes the permission and every grant that references it.
func (r *roleRepository) DeletePermission(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("permission_id = ?", id).Delete(&model.RolePermission{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Permission{}).Error
}

func (r *roleRepository) FindPermissionByID(ctx context.Context, id uuid.UUID) (*model.Permission, error) {
	var perm model.Permission
	if err := GetDB(ctx, r.db).First(&perm, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: permission with id %s does not exist", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &perm, nil
}

func (r *roleRepository) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	var perms []model.Permission
	if err := GetDB(ctx, r.db).Order("name asc").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *roleRepository) Grant(ctx context.Context, roleID, permissionID uuid.UUID) (*model.RolePermission, error) {
	grant := &model.RolePermission{RoleID: roleID, PermissionID: permissionID}
	if err := GetDB(ctx, r.db).Create(grant).Error; err != nil {
		return nil, err
	}
	return grant, nil
}

func (r *roleRepository) Revoke(ctx context.Context, roleID, permissionID uuid.UUID) error {
	result := GetDB(ctx, r.db).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Delete(&model.RolePermission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: no such grant", model.ErrNotFound)
	}
	return nil
}

func (r *roleRepository) ListGrants(ctx context.Context, roleID uuid.UUID) ([]model.RolePermission, error) {
	var grants []model.RolePermission
	if err := GetDB(ctx, r.db).Preload("Permission").Where("role_id = ?", roleID).Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *roleRepository) GrantExists(ctx context.Context, roleID, permissionID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.RolePermission{}).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
