package handlers

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/task-tracker/internal/models"
)

func (suite *TaskHandlerTestSuite) subtaskContext(method, url string, body []byte, task *models.Task, subtaskID string) (*gin.Context, *httptest.ResponseRecorder) {
	c, w := suite.createAuthContext(method, url, body, task.UserID)
	suite.setTaskContext(c, task)
	c.Params = gin.Params{{Key: "id", Value: "1"}, {Key: "subtask_id", Value: subtaskID}}
	return c, w
}

func (suite *TaskHandlerTestSuite) TestAddSubtask() {
	user := suite.createTestUser("owner")
	task := suite.createTestTask("Checklist", user.ID)

	c, w := suite.createAuthContext("POST", "/api/tasks/1/subtasks", []byte(`{"title":"Step one"}`), user.ID)
	suite.setTaskContext(c, task)

	suite.handler.AddSubtask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	response := decodeTask(w)
	suite.Require().Len(response.Subtasks, 1)
	assert.Equal(suite.T(), 1, response.Subtasks[0].ID)
	assert.Equal(suite.T(), "", response.Subtasks[0].Description)
	assert.Equal(suite.T(), 1, response.SubtasksCount)
	assert.Len(suite.T(), suite.reloadTask(task.ID).Subtasks, 1)
}

func (suite *TaskHandlerTestSuite) TestAddSubtask_RequiresTitle() {
	user := suite.createTestUser("owner")
	task := suite.createTestTask("Checklist", user.ID)

	c, w := suite.createAuthContext("POST", "/api/tasks/1/subtasks", []byte(`{"description":"no title"}`), user.ID)
	suite.setTaskContext(c, task)

	suite.handler.AddSubtask(c)

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateSubtaskStatus_CompletesTask() {
	user := suite.createTestUser("owner")
	task := suite.createTestTask("Checklist", user.ID)
	task.AddSubtask("only", "", task.CreatedAt)
	suite.Require().NoError(suite.db.Save(task).Error)

	c, w := suite.subtaskContext("PATCH", "/api/tasks/1/subtasks/1", []byte(`{"completed":true}`), task, "1")

	suite.handler.UpdateSubtaskStatus(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	response := decodeTask(w)
	assert.Equal(suite.T(), models.TaskStatusDone, response.Status)
	assert.Equal(suite.T(), 100, response.SubtasksProgress)
}

func (suite *TaskHandlerTestSuite) TestUpdateSubtaskStatus_UnknownSubtaskIsLenient() {
	user := suite.createTestUser("owner")
	task := suite.createTestTask("Checklist", user.ID)

	c, w := suite.subtaskContext("PATCH", "/api/tasks/1/subtasks/5", []byte(`{"completed":true}`), task, "5")

	suite.handler.UpdateSubtaskStatus(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), models.TaskStatusTodo, decodeTask(w).Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateSubtaskStatus_RequiresCompleted() {
	user := suite.createTestUser("owner")
	task := suite.createTestTask("Checklist", user.ID)

	c, w := suite.subtaskContext("PATCH", "/api/tasks/1/subtasks/1", []byte(`{}`), task, "1")

	suite.handler.UpdateSubtaskStatus(c)

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
}

func (suite *TaskHandlerTestSuite) TestToggleSubtask() {
	user := suite.createTestUser("owner")
	task := suite.createTestTask("Checklist", user.ID)
	task.AddSubtask("one", "", task.CreatedAt)
	suite.Require().NoError(suite.db.Save(task).Error)

	w := httptest.NewRecorder()
	suite.newRouter(user.ID).ServeHTTP(w, httptest.NewRequest("POST", "/api/tasks/1/subtasks/1/toggle", nil))
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.True(suite.T(), suite.reloadTask(task.ID).Subtasks[0].Completed)

	w = httptest.NewRecorder()
	suite.newRouter(user.ID).ServeHTTP(w, httptest.NewRequest("POST", "/api/tasks/1/subtasks/7/toggle", nil))
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteSubtask() {
	user := suite.createTestUser("owner")
	task := suite.createTestTask("Checklist", user.ID)
	task.AddSubtask("one", "", task.CreatedAt)
	task.AddSubtask("two", "", task.CreatedAt)
	suite.Require().NoError(suite.db.Save(task).Error)

	c, w := suite.subtaskContext("DELETE", "/api/tasks/1/subtasks/1", nil, task, "1")
	suite.handler.DeleteSubtask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	stored := suite.reloadTask(task.ID)
	suite.Require().Len(stored.Subtasks, 1)
	assert.Equal(suite.T(), 2, stored.Subtasks[0].ID)

	c, w = suite.subtaskContext("DELETE", "/api/tasks/1/subtasks/1", nil, stored, "1")
	suite.handler.DeleteSubtask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestSubtask_InvalidID() {
	user := suite.createTestUser("owner")
	task := suite.createTestTask("Checklist", user.ID)

	c, w := suite.subtaskContext("DELETE", "/api/tasks/1/subtasks/abc", nil, task, "abc")
	suite.handler.DeleteSubtask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}
