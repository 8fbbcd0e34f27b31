package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreateUser       = "CREATE_USER"
	ActionCreateSuperuser  = "CREATE_SUPERUSER"
	ActionActivateUser     = "ACTIVATE_USER"
	ActionDeactivateUser   = "DEACTIVATE_USER"
	ActionUpdateUser       = "UPDATE_USER"
	ActionDeleteUser       = "DELETE_USER"
	ActionCreateOrg        = "CREATE_ORGANISATION"
	ActionUpdateOrg        = "UPDATE_ORGANISATION"
	ActionDeleteOrg        = "DELETE_ORGANISATION"
	ActionCreateRole       = "CREATE_ROLE"
	ActionUpdateRole       = "UPDATE_ROLE"
	ActionDeleteRole       = "DELETE_ROLE"
	ActionCreatePermission = "CREATE_PERMISSION"
	ActionDeletePermission = "DELETE_PERMISSION"
	ActionGrantPermission  = "GRANT_PERMISSION"
	ActionRevokePermission = "REVOKE_PERMISSION"
	ActionCreateProfile    = "CREATE_PROFILE"
	ActionUpdateProfile    = "UPDATE_PROFILE"
	ActionDeleteProfile    = "DELETE_PROFILE"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index" json:"actor_id"` // Nullable if unattended/system action
	Actor      *User      `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/email)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:text" json:"details"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
