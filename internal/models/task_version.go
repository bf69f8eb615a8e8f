package models

import (
	"time"
)

// TaskVersion is an immutable snapshot of a task's content fields as they
// were before the update tagged with the same version number. For a task at
// version N, snapshots 1..N-1 exist; the set is append-only.
type TaskVersion struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	TaskID      uint64       `gorm:"not null;uniqueIndex:idx_task_versions_task_version;index" json:"task_id"`
	Version     uint64       `gorm:"not null;uniqueIndex:idx_task_versions_task_version" json:"version"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Comment     string       `gorm:"type:text" json:"comment"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null" json:"priority"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null" json:"status"`
	Tags        []string     `gorm:"serializer:json;type:text" json:"tags"`
	DueDate     *time.Time   `json:"due_date"`
	AssigneeID  *uint64      `json:"assignee_id"`
	ReporterID  uint64       `gorm:"not null" json:"reporter_id"`

	// UpdatedByID is the user whose update superseded this state.
	UpdatedByID uint64 `gorm:"not null" json:"updated_by_id"`
	// TaskCreatedAt preserves the task's original creation time.
	TaskCreatedAt time.Time `gorm:"not null" json:"task_created_at"`
	// CreatedAt is the snapshot time.
	CreatedAt time.Time `json:"created_at"`

	// Relations
	UpdatedBy User  `gorm:"foreignKey:UpdatedByID" json:"updated_by,omitempty"`
	Assignee  *User `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Reporter  User  `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
}
