package models

import (
	"time"

	"gorm.io/gorm"
)

// Workspace is the top-level tenant container. The owner is not duplicated
// into Members; access checks treat ownership and membership as equivalent.
type Workspace struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Number      uint64         `gorm:"uniqueIndex;not null" json:"number"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	OwnerID     uint64         `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner   User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []User `gorm:"many2many:workspace_members;" json:"members,omitempty"`
	Spaces  []Space `gorm:"foreignKey:WorkspaceID" json:"spaces,omitempty"`
}
