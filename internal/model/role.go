package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllowedRoleNames is the fixed set of role names the system recognises.
// Comparison is case-insensitive.
var AllowedRoleNames = []string{
	"superadmin",
	"admin",
	"inventory manager",
	"sales rep",
	"invoice clerk",
}

// Role represents a user role that permissions can be granted to
type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Permission represents a single grantable permission
type Permission struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// RolePermission joins a role to a permission. The (role, permission) pair is
// unique: the same grant cannot exist twice.
type RolePermission struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	RoleID       uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_role_permission" json:"role_id"`
	Role         *Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	PermissionID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_role_permission" json:"permission_id"`
	Permission   *Permission `gorm:"foreignKey:PermissionID" json:"permission,omitempty"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (rp *RolePermission) BeforeCreate(tx *gorm.DB) error {
	if rp.ID == uuid.Nil {
		rp.ID = uuid.New()
	}
	return nil
}
