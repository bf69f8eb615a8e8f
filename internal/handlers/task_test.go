package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

// TaskHandlerTestSuite exercises the workspace/space/task surface end to end.
type TaskHandlerTestSuite struct {
	suite.Suite
	stack *testStack

	ownerToken  string
	workspaceID float64
	spaceID     float64
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.stack = newTestStack(&suite.Suite)
	suite.ownerToken = suite.stack.register(&suite.Suite, "Owner", "owner@example.com")

	code, body := suite.stack.request(&suite.Suite, http.MethodPost, "/workspace/create", suite.ownerToken, gin.H{
		"name": "Acme",
	})
	suite.Require().Equal(http.StatusCreated, code)
	ws := body["workspace"].(map[string]any)
	suite.workspaceID = ws["id"].(float64)
	suite.Equal("WS1", ws["workspaceNumber"])

	code, body = suite.stack.request(&suite.Suite, http.MethodPost, "/space/create", suite.ownerToken, gin.H{
		"name":        "Backend",
		"workspaceId": suite.workspaceID,
	})
	suite.Require().Equal(http.StatusCreated, code)
	space := body["space"].(map[string]any)
	suite.spaceID = space["id"].(float64)
	suite.Equal("S1", space["spaceNumber"])
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	suite.stack.close(&suite.Suite)
}

func (suite *TaskHandlerTestSuite) createTask(title string) map[string]any {
	code, body := suite.stack.request(&suite.Suite, http.MethodPost, "/task/create", suite.ownerToken, gin.H{
		"title":      title,
		"spaceId":    suite.spaceID,
		"assigneeId": 1,
	})
	suite.Require().Equal(http.StatusCreated, code)
	return body["task"].(map[string]any)
}

func (suite *TaskHandlerTestSuite) TestTaskLifecycle() {
	task := suite.createTask("Fix bug")
	taskID := task["id"].(float64)
	suite.Equal("T1", task["taskNumber"])
	suite.Equal(float64(1), task["version"])
	suite.Equal("TODO", task["status"])

	// update status to DONE
	code, body := suite.stack.request(&suite.Suite, http.MethodPut,
		fmt.Sprintf("/task/update/%.0f", taskID), suite.ownerToken, gin.H{
			"status": "DONE",
		})
	suite.Equal(http.StatusOK, code)
	updated := body["task"].(map[string]any)
	suite.Equal(float64(2), updated["version"])
	suite.Equal("DONE", updated["status"])

	// exactly one snapshot with the pre-update state
	code, body = suite.stack.request(&suite.Suite, http.MethodPost, "/task/versions", suite.ownerToken, gin.H{
		"taskId": taskID,
	})
	suite.Equal(http.StatusOK, code)
	versions := body["versions"].([]any)
	suite.Require().Len(versions, 1)
	first := versions[0].(map[string]any)
	suite.Equal(float64(1), first["version"])
	suite.Equal("TODO", first["status"])

	// snapshot detail by number
	code, body = suite.stack.request(&suite.Suite, http.MethodPost, "/task/versionDetails", suite.ownerToken, gin.H{
		"taskId":  taskID,
		"version": 1,
	})
	suite.Equal(http.StatusOK, code)
	version := body["version"].(map[string]any)
	suite.Equal("Fix bug", version["title"])

	// revert to version 1: content restored, version keeps climbing
	code, body = suite.stack.request(&suite.Suite, http.MethodPost, "/task/version/revert", suite.ownerToken, gin.H{
		"taskId":  taskID,
		"version": 1,
	})
	suite.Equal(http.StatusOK, code)
	reverted := body["task"].(map[string]any)
	suite.Equal(float64(3), reverted["version"])
	suite.Equal("TODO", reverted["status"])

	// delete, then the task is gone
	code, _ = suite.stack.request(&suite.Suite, http.MethodDelete,
		fmt.Sprintf("/task/delete/%.0f", taskID), suite.ownerToken, nil)
	suite.Equal(http.StatusOK, code)

	code, _ = suite.stack.request(&suite.Suite, http.MethodPost, "/task/details", suite.ownerToken, gin.H{
		"taskId": taskID,
	})
	suite.Equal(http.StatusNotFound, code)
}

func (suite *TaskHandlerTestSuite) TestExpectedVersionConflict() {
	task := suite.createTask("Guarded")
	taskID := task["id"].(float64)

	code, _ := suite.stack.request(&suite.Suite, http.MethodPut,
		fmt.Sprintf("/task/update/%.0f", taskID), suite.ownerToken, gin.H{
			"title":           "Stale",
			"expectedVersion": 5,
		})
	suite.Equal(http.StatusConflict, code)

	code, _ = suite.stack.request(&suite.Suite, http.MethodPut,
		fmt.Sprintf("/task/update/%.0f", taskID), suite.ownerToken, gin.H{
			"title":           "Fresh",
			"expectedVersion": 1,
		})
	suite.Equal(http.StatusOK, code)
}

func (suite *TaskHandlerTestSuite) TestRevertToMissingVersion() {
	task := suite.createTask("No history")

	code, _ := suite.stack.request(&suite.Suite, http.MethodPost, "/task/version/revert", suite.ownerToken, gin.H{
		"taskId":  task["id"],
		"version": 9,
	})
	suite.Equal(http.StatusNotFound, code)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskValidation() {
	code, _ := suite.stack.request(&suite.Suite, http.MethodPost, "/task/create", suite.ownerToken, gin.H{
		"spaceId":    suite.spaceID,
		"assigneeId": 1,
	})
	suite.Equal(http.StatusBadRequest, code)

	code, _ = suite.stack.request(&suite.Suite, http.MethodPost, "/task/create", suite.ownerToken, gin.H{
		"title":   "No assignee",
		"spaceId": suite.spaceID,
	})
	suite.Equal(http.StatusBadRequest, code)

	code, _ = suite.stack.request(&suite.Suite, http.MethodPost, "/task/create", suite.ownerToken, gin.H{
		"title":      "Bad enum",
		"spaceId":    suite.spaceID,
		"assigneeId": 1,
		"priority":   "EXTREME",
	})
	suite.Equal(http.StatusBadRequest, code)
}

func (suite *TaskHandlerTestSuite) TestOutsiderGetsForbidden() {
	task := suite.createTask("Private")
	outsiderToken := suite.stack.register(&suite.Suite, "Outsider", "outsider@example.com")

	code, _ := suite.stack.request(&suite.Suite, http.MethodPost, "/task/details", outsiderToken, gin.H{
		"taskId": task["id"],
	})
	suite.Equal(http.StatusForbidden, code)

	code, _ = suite.stack.request(&suite.Suite, http.MethodPost, "/workspace/details", outsiderToken, gin.H{
		"workspaceId": suite.workspaceID,
	})
	suite.Equal(http.StatusForbidden, code)

	code, _ = suite.stack.request(&suite.Suite, http.MethodPost, "/space/tasks", outsiderToken, gin.H{
		"spaceId": suite.spaceID,
	})
	suite.Equal(http.StatusForbidden, code)

	code, _ = suite.stack.request(&suite.Suite, http.MethodPost, "/workspace/dashboardData", outsiderToken, gin.H{
		"workspaceId": suite.workspaceID,
	})
	suite.Equal(http.StatusForbidden, code)
}

func (suite *TaskHandlerTestSuite) TestSpaceLifecycle() {
	code, body := suite.stack.request(&suite.Suite, http.MethodPut, "/space/update", suite.ownerToken, gin.H{
		"spaceId":     suite.spaceID,
		"name":        "Renamed",
		"description": "now with a description",
	})
	suite.Equal(http.StatusOK, code)
	space := body["space"].(map[string]any)
	suite.Equal("Renamed", space["name"])

	suite.createTask("Goes down with the space")

	code, _ = suite.stack.request(&suite.Suite, http.MethodDelete,
		fmt.Sprintf("/space/delete/%.0f", suite.spaceID), suite.ownerToken, nil)
	suite.Equal(http.StatusOK, code)

	code, body = suite.stack.request(&suite.Suite, http.MethodGet,
		fmt.Sprintf("/workspace/spaces?workspaceId=%.0f", suite.workspaceID), suite.ownerToken, nil)
	suite.Equal(http.StatusOK, code)
	suite.Empty(body["spaces"])
}

func (suite *TaskHandlerTestSuite) TestWorkspaceSpacesListing() {
	code, body := suite.stack.request(&suite.Suite, http.MethodGet,
		fmt.Sprintf("/workspace/spaces?workspaceId=%.0f", suite.workspaceID), suite.ownerToken, nil)
	suite.Equal(http.StatusOK, code)
	spaces := body["spaces"].([]any)
	suite.Require().Len(spaces, 1)
	space := spaces[0].(map[string]any)
	suite.Equal("Backend", space["name"])
	suite.Equal(float64(0), space["taskCount"])

	suite.createTask("Counted")
	_, body = suite.stack.request(&suite.Suite, http.MethodGet,
		fmt.Sprintf("/workspace/spaces?workspaceId=%.0f", suite.workspaceID), suite.ownerToken, nil)
	spaces = body["spaces"].([]any)
	suite.Equal(float64(1), spaces[0].(map[string]any)["taskCount"])
}

func (suite *TaskHandlerTestSuite) TestUserWorkspaces() {
	code, body := suite.stack.request(&suite.Suite, http.MethodGet, "/user/workspaces", suite.ownerToken, nil)
	suite.Equal(http.StatusOK, code)
	workspaces := body["workspaces"].([]any)
	suite.Require().Len(workspaces, 1)
	suite.Equal("Acme", workspaces[0].(map[string]any)["name"])
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
