package repository

import (
	"time"

	"github.com/workspacehq/workspace-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// taskPreloads applies the standard relation set for task reads.
func taskPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Creator").
		Preload("Assignee").
		Preload("Reporter").
		Preload("Space").
		Preload("Space.Workspace")
}

// Create creates a task at version 1. The task number is max+1 within the
// space over all rows including soft-deleted ones; the composite unique index
// rejects a racing duplicate.
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var next uint64
		err := tx.Unscoped().Model(&models.Task{}).
			Where("space_id = ?", task.SpaceID).
			Select("COALESCE(MAX(number), 0) + 1").
			Scan(&next).Error
		if err != nil {
			return err
		}

		task.Number = next
		task.Version = 1
		return tx.Create(task).Error
	})
}

// FindByID finds a task with its relations preloaded
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := taskPreloads(r.db).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindBySpace lists a space's tasks ordered by task number
func (r *GormTaskRepository) FindBySpace(spaceID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := taskPreloads(r.db).
		Where("space_id = ?", spaceID).
		Order("number ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// snapshot writes the task's current state into the version log under its
// current version number. The unique (task_id, version) index makes two
// concurrent writers of the same version abort instead of corrupting the log.
func snapshot(tx *gorm.DB, task *models.Task, actorID uint64) error {
	version := models.TaskVersion{
		TaskID:        task.ID,
		Version:       task.Version,
		Title:         task.Title,
		Description:   task.Description,
		Comment:       task.Comment,
		Priority:      task.Priority,
		Status:        task.Status,
		Tags:          task.Tags,
		DueDate:       task.DueDate,
		AssigneeID:    task.AssigneeID,
		ReporterID:    task.ReporterID,
		UpdatedByID:   actorID,
		TaskCreatedAt: task.CreatedAt,
	}
	return tx.Create(&version).Error
}

// applyPatch overwrites only the fields the patch provides.
func applyPatch(task *models.Task, patch TaskPatch) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Comment != nil {
		task.Comment = *patch.Comment
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Tags != nil {
		task.Tags = *patch.Tags
	}
	if patch.ClearDueDate {
		task.DueDate = nil
	} else if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.ClearAssignee {
		task.AssigneeID = nil
	} else if patch.AssigneeID != nil {
		task.AssigneeID = patch.AssigneeID
	}
	if patch.ReporterID != nil {
		task.ReporterID = *patch.ReporterID
	}
}

// UpdateWithSnapshot implements the snapshot-then-mutate protocol: within one
// transaction the current live state is archived under the current version
// number and the patched state committed at version+1. No observer sees one
// without the other.
func (r *GormTaskRepository) UpdateWithSnapshot(taskID, actorID uint64, expectedVersion *uint64, patch TaskPatch) (*models.Task, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, taskID).Error; err != nil {
			return err
		}

		if expectedVersion != nil && *expectedVersion != task.Version {
			return ErrVersionConflict
		}

		if err := snapshot(tx, &task, actorID); err != nil {
			return err
		}

		applyPatch(&task, patch)
		task.Version++
		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(taskID)
}

// RevertToVersion models a revert as "update to old values": the current
// state is snapshotted like any other update, then the content fields are
// overwritten from the target snapshot. Identity fields (id, number, space,
// creator, original timestamps) are untouched and the version counter keeps
// climbing.
func (r *GormTaskRepository) RevertToVersion(taskID, targetVersion, actorID uint64, expectedVersion *uint64) (*models.Task, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var target models.TaskVersion
		err := tx.Where("task_id = ? AND version = ?", taskID, targetVersion).
			First(&target).Error
		if err != nil {
			return err
		}

		var task models.Task
		if err := tx.First(&task, taskID).Error; err != nil {
			return err
		}

		if expectedVersion != nil && *expectedVersion != task.Version {
			return ErrVersionConflict
		}

		if err := snapshot(tx, &task, actorID); err != nil {
			return err
		}

		task.Title = target.Title
		task.Description = target.Description
		task.Comment = target.Comment
		task.Priority = target.Priority
		task.Status = target.Status
		task.Tags = target.Tags
		task.DueDate = target.DueDate
		task.AssigneeID = target.AssigneeID
		task.ReporterID = target.ReporterID
		task.Version++
		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(taskID)
}

// Versions lists a task's snapshots newest-first
func (r *GormTaskRepository) Versions(taskID uint64) ([]models.TaskVersion, error) {
	var versions []models.TaskVersion
	err := r.db.
		Preload("UpdatedBy").
		Preload("Assignee").
		Preload("Reporter").
		Where("task_id = ?", taskID).
		Order("version DESC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// VersionByNumber finds a single snapshot by exact version number
func (r *GormTaskRepository) VersionByNumber(taskID, version uint64) (*models.TaskVersion, error) {
	var v models.TaskVersion
	err := r.db.
		Preload("UpdatedBy").
		Preload("Assignee").
		Preload("Reporter").
		Where("task_id = ? AND version = ?", taskID, version).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Delete removes a task and cascades to its version log
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskVersion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, id).Error
	})
}

// CanEdit reports whether the user is the task's creator, assignee or reporter
func (r *GormTaskRepository) CanEdit(taskID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("id = ?", taskID).
		Where("creator_id = ? OR assignee_id = ? OR reporter_id = ?", userID, userID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsCreator reports whether the user created the task
func (r *GormTaskRepository) IsCreator(taskID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("id = ? AND creator_id = ?", taskID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DueInRange lists not-done tasks due in [from, to] across all workspaces
func (r *GormTaskRepository) DueInRange(from, to time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := taskPreloads(r.db).
		Where("due_date >= ? AND due_date <= ?", from, to).
		Where("status <> ?", models.TaskStatusDone).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
