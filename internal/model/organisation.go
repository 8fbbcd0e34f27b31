package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organisation represents a company owned by exactly one user
type Organisation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(125);not null" json:"name"`
	Logo      string    `gorm:"type:varchar(255)" json:"logo,omitempty"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	Contact   string    `gorm:"type:varchar(50)" json:"contact,omitempty"`
	Email     string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner     *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *Organisation) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
