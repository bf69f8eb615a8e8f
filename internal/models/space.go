package models

import (
	"time"

	"gorm.io/gorm"
)

// Space groups tasks inside a workspace. Numbers are unique per workspace and
// never reused: allocation scans soft-deleted rows too, and the composite
// index rejects a racing duplicate.
type Space struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Number      uint64         `gorm:"not null;uniqueIndex:idx_spaces_workspace_number" json:"number"`
	WorkspaceID uint64         `gorm:"not null;uniqueIndex:idx_spaces_workspace_number;index" json:"workspace_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`
	Tasks     []Task    `gorm:"foreignKey:SpaceID" json:"tasks,omitempty"`
}
