package repository

import (
	"github.com/workspacehq/workspace-api/internal/models"
	"gorm.io/gorm"
)

// GormSpaceRepository is a GORM implementation of SpaceRepository
type GormSpaceRepository struct {
	db *gorm.DB
}

// NewSpaceRepository creates a new SpaceRepository
func NewSpaceRepository(db *gorm.DB) SpaceRepository {
	return &GormSpaceRepository{db: db}
}

// Create creates a space. The number is max+1 within the workspace over all
// rows including soft-deleted ones, so numbers are never reused after
// deletion; the composite unique index rejects a racing duplicate.
func (r *GormSpaceRepository) Create(space *models.Space) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var next uint64
		err := tx.Unscoped().Model(&models.Space{}).
			Where("workspace_id = ?", space.WorkspaceID).
			Select("COALESCE(MAX(number), 0) + 1").
			Scan(&next).Error
		if err != nil {
			return err
		}

		space.Number = next
		return tx.Create(space).Error
	})
}

// FindByID finds a space with its workspace preloaded
func (r *GormSpaceRepository) FindByID(id uint64) (*models.Space, error) {
	var space models.Space
	if err := r.db.Preload("Workspace").First(&space, id).Error; err != nil {
		return nil, err
	}
	return &space, nil
}

// Update updates a space's name and description
func (r *GormSpaceRepository) Update(space *models.Space) error {
	return r.db.Save(space).Error
}

// Delete removes a space, its tasks and their version logs in one transaction
func (r *GormSpaceRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint64
		err := tx.Model(&models.Task{}).
			Where("space_id = ?", id).
			Pluck("id", &taskIDs).Error
		if err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskVersion{}).Error; err != nil {
				return err
			}
			if err := tx.Where("space_id = ?", id).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Space{}, id).Error
	})
}

// TaskCount counts live tasks in the space
func (r *GormSpaceRepository) TaskCount(spaceID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("space_id = ?", spaceID).
		Count(&count).Error
	return count, err
}
