package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/workspacehq/workspace-api/internal/models"
	"github.com/workspacehq/workspace-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db            *gorm.DB
	workspaceRepo repository.WorkspaceRepository
	spaceRepo     repository.SpaceRepository
	taskRepo      repository.TaskRepository
	service       *TaskService

	owner    *models.User
	member   *models.User
	outsider *models.User
	ws       *models.Workspace
	space    *models.Space
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.Space{},
		&models.Task{},
		&models.TaskVersion{},
	)
	suite.Require().NoError(err)

	suite.workspaceRepo = repository.NewWorkspaceRepository(suite.db)
	suite.spaceRepo = repository.NewSpaceRepository(suite.db)
	suite.taskRepo = repository.NewTaskRepository(suite.db)
	suite.service = NewTaskService(suite.taskRepo, suite.spaceRepo, suite.workspaceRepo)

	suite.owner = suite.createUser("Owner", "owner@example.com")
	suite.member = suite.createUser("Member", "member@example.com")
	suite.outsider = suite.createUser("Outsider", "outsider@example.com")

	suite.ws = &models.Workspace{Name: "Acme", OwnerID: suite.owner.ID}
	suite.Require().NoError(suite.workspaceRepo.Create(suite.ws))
	suite.Require().NoError(suite.workspaceRepo.AddMembers(suite.ws.ID, []uint64{suite.member.ID}))

	suite.space = &models.Space{Name: "Backend", WorkspaceID: suite.ws.ID}
	suite.Require().NoError(suite.spaceRepo.Create(suite.space))
}

// TearDownTest runs after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createUser(name, email string) *models.User {
	user := &models.User{Name: name, Email: email, PasswordHash: "hashedpassword"}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskServiceTestSuite) createTask(title string) *models.Task {
	task, err := suite.service.CreateTask(CreateTaskInput{
		Title:      title,
		SpaceID:    suite.space.ID,
		CreatorID:  suite.owner.ID,
		AssigneeID: suite.owner.ID,
	})
	suite.Require().NoError(err)
	return task
}

func strPtr(s string) *string { return &s }

func statusPtr(s models.TaskStatus) *models.TaskStatus { return &s }

func uint64Ptr(n uint64) *uint64 { return &n }

func (suite *TaskServiceTestSuite) TestCreateTaskStartsAtVersionOne() {
	task := suite.createTask("Fix bug")

	suite.Equal(uint64(1), task.Version)
	suite.Equal(uint64(1), task.Number)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.Equal(models.TaskPriorityMedium, task.Priority)
	suite.Equal(suite.owner.ID, task.ReporterID)

	versions, err := suite.service.GetVersions(task.ID, suite.owner.ID)
	suite.NoError(err)
	suite.Empty(versions)
}

func (suite *TaskServiceTestSuite) TestTaskNumbersAreSequentialPerSpace() {
	for i := uint64(1); i <= 4; i++ {
		task := suite.createTask("Task")
		suite.Equal(i, task.Number)
	}

	other := &models.Space{Name: "Frontend", WorkspaceID: suite.ws.ID}
	suite.Require().NoError(suite.spaceRepo.Create(other))

	task, err := suite.service.CreateTask(CreateTaskInput{
		Title:      "First in new space",
		SpaceID:    other.ID,
		CreatorID:  suite.owner.ID,
		AssigneeID: suite.owner.ID,
	})
	suite.NoError(err)
	suite.Equal(uint64(1), task.Number)
}

func (suite *TaskServiceTestSuite) TestTaskNumbersNotReusedAfterDelete() {
	first := suite.createTask("One")
	suite.createTask("Two")

	suite.Require().NoError(suite.service.DeleteTask(first.ID, suite.owner.ID))

	task := suite.createTask("Three")
	suite.Equal(uint64(3), task.Number)
}

func (suite *TaskServiceTestSuite) TestCreateTaskValidation() {
	base := CreateTaskInput{
		Title:      "Valid",
		SpaceID:    suite.space.ID,
		CreatorID:  suite.owner.ID,
		AssigneeID: suite.owner.ID,
	}

	missingTitle := base
	missingTitle.Title = "   "
	_, err := suite.service.CreateTask(missingTitle)
	suite.ErrorIs(err, ErrTaskTitleRequired)

	missingAssignee := base
	missingAssignee.AssigneeID = 0
	_, err = suite.service.CreateTask(missingAssignee)
	suite.ErrorIs(err, ErrAssigneeRequired)

	badPriority := base
	badPriority.Priority = "CRITICAL"
	_, err = suite.service.CreateTask(badPriority)
	suite.ErrorIs(err, ErrInvalidPriority)

	badStatus := base
	badStatus.Status = "BLOCKED"
	_, err = suite.service.CreateTask(badStatus)
	suite.ErrorIs(err, ErrInvalidStatus)

	missingSpace := base
	missingSpace.SpaceID = 99999
	_, err = suite.service.CreateTask(missingSpace)
	suite.ErrorIs(err, ErrSpaceNotFound)
}

func (suite *TaskServiceTestSuite) TestUpdateSnapshotsPriorState() {
	task := suite.createTask("Fix bug")

	updated, err := suite.service.UpdateTask(task.ID, suite.owner.ID, UpdateTaskInput{
		Patch: repository.TaskPatch{Status: statusPtr(models.TaskStatusDone)},
	})
	suite.NoError(err)
	suite.Equal(uint64(2), updated.Version)
	suite.Equal(models.TaskStatusDone, updated.Status)

	versions, err := suite.service.GetVersions(task.ID, suite.owner.ID)
	suite.NoError(err)
	suite.Require().Len(versions, 1)
	suite.Equal(uint64(1), versions[0].Version)
	suite.Equal(models.TaskStatusTodo, versions[0].Status)
	suite.Equal("Fix bug", versions[0].Title)
	suite.Equal(suite.owner.ID, versions[0].UpdatedByID)
}

func (suite *TaskServiceTestSuite) TestVersionLogAfterSeveralUpdates() {
	task := suite.createTask("Iterate")

	titles := []string{"Second", "Third", "Fourth"}
	for _, title := range titles {
		_, err := suite.service.UpdateTask(task.ID, suite.owner.ID, UpdateTaskInput{
			Patch: repository.TaskPatch{Title: strPtr(title)},
		})
		suite.Require().NoError(err)
	}

	live, err := suite.service.GetTask(task.ID, suite.owner.ID)
	suite.NoError(err)
	suite.Equal(uint64(4), live.Version)
	suite.Equal("Fourth", live.Title)

	// exactly M snapshots numbered 1..M, newest first
	versions, err := suite.service.GetVersions(task.ID, suite.owner.ID)
	suite.NoError(err)
	suite.Require().Len(versions, 3)
	suite.Equal(uint64(3), versions[0].Version)
	suite.Equal(uint64(2), versions[1].Version)
	suite.Equal(uint64(1), versions[2].Version)
	suite.Equal("Third", versions[0].Title)
	suite.Equal("Second", versions[1].Title)
	suite.Equal("Iterate", versions[2].Title)
}

func (suite *TaskServiceTestSuite) TestUpdateExpectedVersionConflict() {
	task := suite.createTask("Guarded")

	_, err := suite.service.UpdateTask(task.ID, suite.owner.ID, UpdateTaskInput{
		Patch:           repository.TaskPatch{Title: strPtr("Stale write")},
		ExpectedVersion: uint64Ptr(2),
	})
	suite.ErrorIs(err, ErrVersionConflict)

	// nothing was written
	live, err := suite.service.GetTask(task.ID, suite.owner.ID)
	suite.NoError(err)
	suite.Equal(uint64(1), live.Version)
	suite.Equal("Guarded", live.Title)

	versions, err := suite.service.GetVersions(task.ID, suite.owner.ID)
	suite.NoError(err)
	suite.Empty(versions)

	// matching guard goes through
	updated, err := suite.service.UpdateTask(task.ID, suite.owner.ID, UpdateTaskInput{
		Patch:           repository.TaskPatch{Title: strPtr("Fresh write")},
		ExpectedVersion: uint64Ptr(1),
	})
	suite.NoError(err)
	suite.Equal(uint64(2), updated.Version)
}

func (suite *TaskServiceTestSuite) TestRevertCopiesContentForward() {
	task := suite.createTask("Original")

	_, err := suite.service.UpdateTask(task.ID, suite.owner.ID, UpdateTaskInput{
		Patch: repository.TaskPatch{
			Title:  strPtr("Changed"),
			Status: statusPtr(models.TaskStatusInProgress),
		},
	})
	suite.Require().NoError(err)

	reverted, err := suite.service.RevertTask(task.ID, 1, suite.owner.ID, nil)
	suite.NoError(err)

	// content equals snapshot 1, version keeps climbing
	suite.Equal("Original", reverted.Title)
	suite.Equal(models.TaskStatusTodo, reverted.Status)
	suite.Equal(uint64(3), reverted.Version)

	versions, err := suite.service.GetVersions(task.ID, suite.owner.ID)
	suite.NoError(err)
	suite.Len(versions, 2)
}

func (suite *TaskServiceTestSuite) TestSequentialReverts() {
	task := suite.createTask("v1 content")

	_, err := suite.service.UpdateTask(task.ID, suite.owner.ID, UpdateTaskInput{
		Patch: repository.TaskPatch{Title: strPtr("v2 content")},
	})
	suite.Require().NoError(err)
	_, err = suite.service.UpdateTask(task.ID, suite.owner.ID, UpdateTaskInput{
		Patch: repository.TaskPatch{Title: strPtr("v3 content")},
	})
	suite.Require().NoError(err)

	reverted, err := suite.service.RevertTask(task.ID, 1, suite.owner.ID, nil)
	suite.NoError(err)
	suite.Equal(uint64(4), reverted.Version)
	suite.Equal("v1 content", reverted.Title)

	reverted, err = suite.service.RevertTask(task.ID, 2, suite.owner.ID, nil)
	suite.NoError(err)
	suite.Equal(uint64(5), reverted.Version)
	suite.Equal("v2 content", reverted.Title)
}

func (suite *TaskServiceTestSuite) TestRevertToMissingVersion() {
	task := suite.createTask("No history")

	_, err := suite.service.RevertTask(task.ID, 7, suite.owner.ID, nil)
	suite.ErrorIs(err, ErrVersionNotFound)
}

func (suite *TaskServiceTestSuite) TestRevertExpectedVersionConflict() {
	task := suite.createTask("Guarded revert")

	_, err := suite.service.UpdateTask(task.ID, suite.owner.ID, UpdateTaskInput{
		Patch: repository.TaskPatch{Title: strPtr("Changed")},
	})
	suite.Require().NoError(err)

	_, err = suite.service.RevertTask(task.ID, 1, suite.owner.ID, uint64Ptr(1))
	suite.ErrorIs(err, ErrVersionConflict)
}

func (suite *TaskServiceTestSuite) TestAccessDeniedForOutsider() {
	task := suite.createTask("Private")

	_, err := suite.service.GetTask(task.ID, suite.outsider.ID)
	suite.ErrorIs(err, ErrWorkspaceAccessDenied)

	_, err = suite.service.UpdateTask(task.ID, suite.outsider.ID, UpdateTaskInput{
		Patch: repository.TaskPatch{Title: strPtr("Hijack")},
	})
	suite.ErrorIs(err, ErrWorkspaceAccessDenied)

	_, err = suite.service.GetVersions(task.ID, suite.outsider.ID)
	suite.ErrorIs(err, ErrWorkspaceAccessDenied)

	_, err = suite.service.RevertTask(task.ID, 1, suite.outsider.ID, nil)
	suite.ErrorIs(err, ErrWorkspaceAccessDenied)

	err = suite.service.DeleteTask(task.ID, suite.outsider.ID)
	suite.ErrorIs(err, ErrWorkspaceAccessDenied)

	_, err = suite.service.CreateTask(CreateTaskInput{
		Title:      "Smuggled",
		SpaceID:    suite.space.ID,
		CreatorID:  suite.outsider.ID,
		AssigneeID: suite.outsider.ID,
	})
	suite.ErrorIs(err, ErrWorkspaceAccessDenied)
}

func (suite *TaskServiceTestSuite) TestMemberWithoutRoleCannotEdit() {
	task := suite.createTask("Owner's task")

	_, err := suite.service.UpdateTask(task.ID, suite.member.ID, UpdateTaskInput{
		Patch: repository.TaskPatch{Title: strPtr("Member edit")},
	})
	suite.ErrorIs(err, ErrTaskEditForbidden)

	// assigning the member grants edit rights
	_, err = suite.service.UpdateTask(task.ID, suite.owner.ID, UpdateTaskInput{
		Patch: repository.TaskPatch{AssigneeID: uint64Ptr(suite.member.ID)},
	})
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateTask(task.ID, suite.member.ID, UpdateTaskInput{
		Patch: repository.TaskPatch{Title: strPtr("Member edit")},
	})
	suite.NoError(err)
	suite.Equal("Member edit", updated.Title)
}

func (suite *TaskServiceTestSuite) TestDeleteIsCreatorOnly() {
	task, err := suite.service.CreateTask(CreateTaskInput{
		Title:      "To delete",
		SpaceID:    suite.space.ID,
		CreatorID:  suite.owner.ID,
		AssigneeID: suite.member.ID,
	})
	suite.Require().NoError(err)

	err = suite.service.DeleteTask(task.ID, suite.member.ID)
	suite.ErrorIs(err, ErrNotTaskCreator)

	_, err = suite.service.UpdateTask(task.ID, suite.owner.ID, UpdateTaskInput{
		Patch: repository.TaskPatch{Comment: strPtr("about to go")},
	})
	suite.Require().NoError(err)

	suite.NoError(suite.service.DeleteTask(task.ID, suite.owner.ID))

	_, err = suite.service.GetTask(task.ID, suite.owner.ID)
	suite.ErrorIs(err, ErrTaskNotFound)

	// version log is gone with the task
	var count int64
	suite.db.Model(&models.TaskVersion{}).Where("task_id = ?", task.ID).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *TaskServiceTestSuite) TestClearingAssigneeRejected() {
	task := suite.createTask("Keeps assignee")

	_, err := suite.service.UpdateTask(task.ID, suite.owner.ID, UpdateTaskInput{
		Patch: repository.TaskPatch{ClearAssignee: true},
	})
	suite.ErrorIs(err, ErrAssigneeRequired)
}

func (suite *TaskServiceTestSuite) TestDueDatePatchDistinguishesClearFromAbsent() {
	due := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	task, err := suite.service.CreateTask(CreateTaskInput{
		Title:      "Dated",
		DueDate:    &due,
		SpaceID:    suite.space.ID,
		CreatorID:  suite.owner.ID,
		AssigneeID: suite.owner.ID,
	})
	suite.Require().NoError(err)

	// absent leaves the due date alone
	updated, err := suite.service.UpdateTask(task.ID, suite.owner.ID, UpdateTaskInput{
		Patch: repository.TaskPatch{Comment: strPtr("still dated")},
	})
	suite.NoError(err)
	suite.Require().NotNil(updated.DueDate)
	suite.True(updated.DueDate.Equal(due))

	// explicit clear removes it
	updated, err = suite.service.UpdateTask(task.ID, suite.owner.ID, UpdateTaskInput{
		Patch: repository.TaskPatch{ClearDueDate: true},
	})
	suite.NoError(err)
	suite.Nil(updated.DueDate)
}

func (suite *TaskServiceTestSuite) TestGetVersionDetails() {
	task := suite.createTask("Inspect")

	_, err := suite.service.UpdateTask(task.ID, suite.owner.ID, UpdateTaskInput{
		Patch: repository.TaskPatch{Title: strPtr("Inspect v2")},
	})
	suite.Require().NoError(err)

	version, err := suite.service.GetVersion(task.ID, 1, suite.owner.ID)
	suite.NoError(err)
	suite.Equal("Inspect", version.Title)
	suite.Equal(uint64(1), version.Version)

	_, err = suite.service.GetVersion(task.ID, 9, suite.owner.ID)
	suite.ErrorIs(err, ErrVersionNotFound)
}

// TestTaskServiceTestSuite runs the test suite
func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
