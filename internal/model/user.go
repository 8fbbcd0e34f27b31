package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Station enum constants — the physical operating context of a user
const (
	StationWarehouse = "WH"
	StationShop      = "SP"
)

// User represents the central account entity for logic and database structure
type User struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Username       string        `gorm:"type:varchar(128);uniqueIndex;not null" json:"username"`
	Email          string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password       string        `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, omitted from JSON
	Firstname      string        `gorm:"type:varchar(255)" json:"firstname"`
	Middlename     string        `gorm:"type:varchar(255)" json:"middlename,omitempty"`
	Lastname       string        `gorm:"type:varchar(255)" json:"lastname"`
	RoleID         *uuid.UUID    `gorm:"type:uuid;index" json:"role_id"`
	Role           *Role         `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	OrganisationID *uuid.UUID    `gorm:"type:uuid;index" json:"organisation_id"`
	Organisation   *Organisation `gorm:"foreignKey:OrganisationID" json:"organisation,omitempty"`
	UserStation    string        `gorm:"type:varchar(2)" json:"user_station"` // WH, SP
	StationID      string        `gorm:"type:varchar(50)" json:"station_id,omitempty"`
	IsActive       bool          `gorm:"default:true" json:"is_active"`
	IsStaff        bool          `gorm:"default:false" json:"is_staff"`
	IsSuperuser    bool          `gorm:"default:false" json:"is_superuser"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns the UUID in-process so the model works on any SQL engine
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ApplyField sets a single named field on the user. Partial updates go through
// this whitelist instead of reflection: an unknown field name is an error, and a
// value of the wrong dynamic type is a type-mismatch error.
func (u *User) ApplyField(name string, value interface{}) error {
	switch name {
	case "username":
		return applyString(name, value, func(s string) { u.Username = s })
	case "email":
		return applyString(name, value, func(s string) { u.Email = s })
	case "firstname":
		return applyString(name, value, func(s string) { u.Firstname = s })
	case "middlename":
		return applyString(name, value, func(s string) { u.Middlename = s })
	case "lastname":
		return applyString(name, value, func(s string) { u.Lastname = s })
	case "user_station":
		return applyString(name, value, func(s string) { u.UserStation = s })
	case "station_id":
		return applyString(name, value, func(s string) { u.StationID = s })
	case "role_id":
		return applyUUID(name, value, func(id *uuid.UUID) { u.RoleID = id })
	case "organisation_id":
		return applyUUID(name, value, func(id *uuid.UUID) { u.OrganisationID = id })
	case "is_active":
		return applyBool(name, value, func(b bool) { u.IsActive = b })
	case "is_staff":
		return applyBool(name, value, func(b bool) { u.IsStaff = b })
	case "is_superuser":
		return applyBool(name, value, func(b bool) { u.IsSuperuser = b })
	default:
		return &UnknownFieldError{Model: "User", Field: name}
	}
}

// ApplyFields merges a set of named fields onto the user, stopping at the first
// bad field. Callers must not persist the entity when an error is returned.
func (u *User) ApplyFields(fields map[string]interface{}) error {
	for name, value := range fields {
		if err := u.ApplyField(name, value); err != nil {
			return err
		}
	}
	return nil
}

func applyString(name string, value interface{}, set func(string)) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: field '%s' expects a string, got %T", ErrTypeMismatch, name, value)
	}
	set(s)
	return nil
}

func applyBool(name string, value interface{}, set func(bool)) error {
	b, ok := value.(bool)
	if !ok {
		return fmt.Errorf("%w: field '%s' expects a bool, got %T", ErrTypeMismatch, name, value)
	}
	set(b)
	return nil
}

func applyUUID(name string, value interface{}, set func(*uuid.UUID)) error {
	switch v := value.(type) {
	case nil:
		set(nil)
		return nil
	case uuid.UUID:
		set(&v)
		return nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return fmt.Errorf("%w: field '%s' is not a valid uuid: %v", ErrInvalidInput, name, err)
		}
		set(&id)
		return nil
	default:
		return fmt.Errorf("%w: field '%s' expects a uuid, got %T", ErrTypeMismatch, name, value)
	}
}
