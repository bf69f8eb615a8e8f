package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

// InvitationHandlerTestSuite exercises the invitation surface end to end.
type InvitationHandlerTestSuite struct {
	suite.Suite
	stack *testStack

	ownerToken  string
	workspaceID float64
}

// SetupTest runs before each test
func (suite *InvitationHandlerTestSuite) SetupTest() {
	suite.stack = newTestStack(&suite.Suite)
	suite.ownerToken = suite.stack.register(&suite.Suite, "Owner", "owner@example.com")

	code, body := suite.stack.request(&suite.Suite, http.MethodPost, "/workspace/create", suite.ownerToken, gin.H{
		"name": "Acme",
	})
	suite.Require().Equal(http.StatusCreated, code)
	suite.workspaceID = body["workspace"].(map[string]any)["id"].(float64)
}

// TearDownTest runs after each test
func (suite *InvitationHandlerTestSuite) TearDownTest() {
	suite.stack.close(&suite.Suite)
}

func (suite *InvitationHandlerTestSuite) send(email string) string {
	code, body := suite.stack.request(&suite.Suite, http.MethodPost, "/invitation/send", suite.ownerToken, gin.H{
		"email":       email,
		"workspaceId": suite.workspaceID,
	})
	suite.Require().Equal(http.StatusCreated, code)
	return body["invitationId"].(string)
}

func (suite *InvitationHandlerTestSuite) TestSendAndJoinLink() {
	id := suite.send("new@example.com")

	// unauthenticated link click: unknown email must register
	code, body := suite.stack.request(&suite.Suite, http.MethodGet, "/invitation/join/"+id, "", nil)
	suite.Equal(http.StatusOK, code)
	suite.Equal("register", body["action"])
	invitation := body["invitation"].(map[string]any)
	suite.Equal("Acme", invitation["workspaceName"])
	suite.Equal("WS1", invitation["workspaceNumber"])
}

func (suite *InvitationHandlerTestSuite) TestDuplicateSendConflicts() {
	suite.send("new@example.com")

	code, _ := suite.stack.request(&suite.Suite, http.MethodPost, "/invitation/send", suite.ownerToken, gin.H{
		"email":       "new@example.com",
		"workspaceId": suite.workspaceID,
	})
	suite.Equal(http.StatusConflict, code)
}

func (suite *InvitationHandlerTestSuite) TestSendToMemberConflicts() {
	code, _ := suite.stack.request(&suite.Suite, http.MethodPost, "/invitation/send", suite.ownerToken, gin.H{
		"email":       "owner@example.com",
		"workspaceId": suite.workspaceID,
	})
	suite.Equal(http.StatusConflict, code)
}

func (suite *InvitationHandlerTestSuite) TestUnknownLinkIsGone() {
	code, _ := suite.stack.request(&suite.Suite, http.MethodGet,
		"/invitation/join/00000000-0000-0000-0000-000000000000", "", nil)
	suite.Equal(http.StatusGone, code)
}

func (suite *InvitationHandlerTestSuite) TestRegisterWithInvitationJoinsWorkspace() {
	id := suite.send("new@example.com")

	code, body := suite.stack.request(&suite.Suite, http.MethodPost, "/auth/register", "", gin.H{
		"name":         "New User",
		"email":        "new@example.com",
		"password":     "secret123",
		"invitationId": id,
	})
	suite.Equal(http.StatusCreated, code)
	suite.Equal(true, body["invitationAccepted"])
	ws := body["workspace"].(map[string]any)
	suite.Equal(suite.workspaceID, ws["id"])

	// the invitation is consumed
	code, _ = suite.stack.request(&suite.Suite, http.MethodGet, "/invitation/join/"+id, "", nil)
	suite.Equal(http.StatusGone, code)

	// the new member can now see the workspace
	token := body["token"].(string)
	code, body = suite.stack.request(&suite.Suite, http.MethodPost, "/workspace/details", token, gin.H{
		"workspaceId": suite.workspaceID,
	})
	suite.Equal(http.StatusOK, code)
	members := body["workspace"].(map[string]any)["members"].([]any)
	suite.Len(members, 1)
}

func (suite *InvitationHandlerTestSuite) TestAcceptEndpoint() {
	inviteeToken := suite.stack.register(&suite.Suite, "Invitee", "invitee@example.com")
	id := suite.send("invitee@example.com")

	code, body := suite.stack.request(&suite.Suite, http.MethodPost, "/invitation/accept", inviteeToken, gin.H{
		"invitationId": id,
	})
	suite.Equal(http.StatusOK, code)
	suite.Equal(suite.workspaceID, body["workspace"].(map[string]any)["id"])

	// accepting again reports the invitation gone
	code, _ = suite.stack.request(&suite.Suite, http.MethodPost, "/invitation/accept", inviteeToken, gin.H{
		"invitationId": id,
	})
	suite.Equal(http.StatusNotFound, code)
}

func (suite *InvitationHandlerTestSuite) TestAcceptSomeoneElsesInvitation() {
	strangerToken := suite.stack.register(&suite.Suite, "Stranger", "stranger@example.com")
	id := suite.send("invitee@example.com")

	code, _ := suite.stack.request(&suite.Suite, http.MethodPost, "/invitation/accept", strangerToken, gin.H{
		"invitationId": id,
	})
	suite.Equal(http.StatusForbidden, code)
}

// TestInvitationHandlerTestSuite runs the test suite
func TestInvitationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(InvitationHandlerTestSuite))
}
