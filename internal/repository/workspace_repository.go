package repository

import (
	"time"

	"github.com/workspacehq/workspace-api/internal/models"
	"gorm.io/gorm"
)

// GormWorkspaceRepository is a GORM implementation of WorkspaceRepository
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

// Create creates a workspace. The global number is max+1 over all rows,
// soft-deleted included, computed in the same transaction as the insert; the
// unique index on number turns a racing duplicate into a constraint error
// instead of a silently reused number.
func (r *GormWorkspaceRepository) Create(ws *models.Workspace) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var next uint64
		err := tx.Unscoped().Model(&models.Workspace{}).
			Select("COALESCE(MAX(number), 0) + 1").
			Scan(&next).Error
		if err != nil {
			return err
		}

		ws.Number = next
		return tx.Create(ws).Error
	})
}

// FindByID finds a workspace with owner, members and spaces preloaded
func (r *GormWorkspaceRepository) FindByID(id uint64) (*models.Workspace, error) {
	var ws models.Workspace
	err := r.db.
		Preload("Owner").
		Preload("Members").
		Preload("Spaces", func(db *gorm.DB) *gorm.DB {
			return db.Order("spaces.number ASC")
		}).
		First(&ws, id).Error
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// FindByUser lists workspaces the user owns or is a member of, newest first
func (r *GormWorkspaceRepository) FindByUser(userID uint64) ([]models.Workspace, error) {
	memberOf := r.db.Table("workspace_members").
		Select("workspace_id").
		Where("user_id = ?", userID)

	var workspaces []models.Workspace
	err := r.db.
		Preload("Owner").
		Preload("Members").
		Preload("Spaces").
		Where("owner_id = ? OR id IN (?)", userID, memberOf).
		Order("created_at DESC").
		Find(&workspaces).Error
	if err != nil {
		return nil, err
	}
	return workspaces, nil
}

// AddMembers adds users to the workspace member set
func (r *GormWorkspaceRepository) AddMembers(workspaceID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}

	ws := models.Workspace{ID: workspaceID}
	users := make([]models.User, len(userIDs))
	for i, id := range userIDs {
		users[i] = models.User{ID: id}
	}
	return r.db.Model(&ws).Association("Members").Append(users)
}

// HasAccess reports whether the user is the owner or a member
func (r *GormWorkspaceRepository) HasAccess(userID, workspaceID uint64) (bool, error) {
	memberOf := r.db.Table("workspace_members").
		Select("workspace_id").
		Where("user_id = ?", userID)

	var count int64
	err := r.db.Model(&models.Workspace{}).
		Where("id = ?", workspaceID).
		Where("owner_id = ? OR id IN (?)", userID, memberOf).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasAccessByEmail is HasAccess keyed by email instead of user id
func (r *GormWorkspaceRepository) HasAccessByEmail(email string, workspaceID uint64) (bool, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	return r.HasAccess(user.ID, workspaceID)
}

// IsOwner reports whether the user owns the workspace
func (r *GormWorkspaceRepository) IsOwner(userID, workspaceID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Workspace{}).
		Where("id = ? AND owner_id = ?", workspaceID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SpacesWithTaskCounts lists the workspace's spaces ordered by number with
// per-space task counts
func (r *GormWorkspaceRepository) SpacesWithTaskCounts(workspaceID uint64) ([]SpaceTaskCount, error) {
	var spaces []models.Space
	err := r.db.Where("workspace_id = ?", workspaceID).
		Order("number ASC").
		Find(&spaces).Error
	if err != nil {
		return nil, err
	}

	result := make([]SpaceTaskCount, 0, len(spaces))
	for _, space := range spaces {
		var count int64
		err := r.db.Model(&models.Task{}).
			Where("space_id = ?", space.ID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		result = append(result, SpaceTaskCount{Space: space, TaskCount: count})
	}
	return result, nil
}

// priorityRank orders URGENT before HIGH before MEDIUM before LOW in SQL.
const priorityRank = "CASE tasks.priority WHEN 'URGENT' THEN 0 WHEN 'HIGH' THEN 1 WHEN 'MEDIUM' THEN 2 ELSE 3 END"

// DueToday lists not-done tasks due today, highest priority first
func (r *GormWorkspaceRepository) DueToday(workspaceID uint64, now time.Time) ([]models.Task, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24 * time.Hour)

	var tasks []models.Task
	err := r.workspaceTasks(workspaceID).
		Where("tasks.due_date >= ? AND tasks.due_date < ?", start, end).
		Order(priorityRank).
		Order("tasks.created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// DueUpcoming lists not-done tasks due within the next `days` days, excluding
// today, soonest first
func (r *GormWorkspaceRepository) DueUpcoming(workspaceID uint64, now time.Time, days int) ([]models.Task, error) {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := startOfToday.Add(24 * time.Hour)
	end := start.AddDate(0, 0, days)

	var tasks []models.Task
	err := r.workspaceTasks(workspaceID).
		Where("tasks.due_date >= ? AND tasks.due_date < ?", start, end).
		Order("tasks.due_date ASC").
		Order(priorityRank).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// workspaceTasks scopes not-done tasks to a workspace via their space.
func (r *GormWorkspaceRepository) workspaceTasks(workspaceID uint64) *gorm.DB {
	return r.db.Model(&models.Task{}).
		Preload("Creator").
		Preload("Assignee").
		Preload("Reporter").
		Preload("Space").
		Joins("JOIN spaces ON spaces.id = tasks.space_id AND spaces.deleted_at IS NULL").
		Where("spaces.workspace_id = ?", workspaceID).
		Where("tasks.status <> ?", models.TaskStatusDone)
}

// StatusCountsBySpace returns a per-space histogram of task statuses.
// Spaces without tasks appear with an empty status and a zero count.
func (r *GormWorkspaceRepository) StatusCountsBySpace(workspaceID uint64) ([]SpaceStatusCount, error) {
	var rows []SpaceStatusCount
	err := r.db.Model(&models.Space{}).
		Select("spaces.id AS space_id, spaces.name AS space_name, spaces.number AS space_number, " +
			"COALESCE(tasks.status, '') AS status, COUNT(tasks.id) AS count").
		Joins("LEFT JOIN tasks ON tasks.space_id = spaces.id AND tasks.deleted_at IS NULL").
		Where("spaces.workspace_id = ?", workspaceID).
		Group("spaces.id, spaces.name, spaces.number, tasks.status").
		Order("spaces.number ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
