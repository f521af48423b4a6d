package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Text string `json:"text" binding:"required" example:"Read chapter 3"`
}

// Completed is a pointer so an absent field is distinguishable from false.
type updateTaskRequest struct {
	Completed *bool `json:"completed" binding:"required" example:"true"`
}

// @Summary      List tasks
// @Description  Returns the caller's tasks ordered by id.
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Task
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /tasks [get]
func (h *Handler) listTasks(c *gin.Context) {
	id, ok := mustIdentity(c)
	if !ok {
		return
	}

	tasks, err := h.services.Tasks.List(c.Request.Context(), id.ID)
	if err != nil {
		h.respondError(c, err, "tasks_list_failed", "user_id", id.ID)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      201   {object}  models.Task
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /tasks [post]
func (h *Handler) createTask(c *gin.Context) {
	id, ok := mustIdentity(c)
	if !ok {
		return
	}
	var input createTaskRequest
	if ok := h.bindJSONOrBadRequest(c, &input, errMsgTextRequired); !ok {
		return
	}

	task, err := h.services.Tasks.Create(c.Request.Context(), id.ID, input.Text)
	if err != nil {
		h.respondError(c, err, "tasks_create_failed", "user_id", id.ID)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// @Summary      Update task completion
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Completion flag"
// @Success      200   {object}  models.Task
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /tasks/{id} [put]
func (h *Handler) updateTask(c *gin.Context) {
	id, ok := mustIdentity(c)
	if !ok {
		return
	}
	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}
	var input updateTaskRequest
	if ok := h.bindJSONOrBadRequest(c, &input, errMsgCompletedRequired); !ok {
		return
	}

	task, err := h.services.Tasks.SetCompleted(c.Request.Context(), id.ID, taskID, *input.Completed)
	if err != nil {
		h.respondError(c, err, "tasks_update_failed", "user_id", id.ID, "task_id", taskID)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Delete task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id  path  int  true  "Task id"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /tasks/{id} [delete]
func (h *Handler) deleteTask(c *gin.Context) {
	id, ok := mustIdentity(c)
	if !ok {
		return
	}
	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Tasks.Delete(c.Request.Context(), id.ID, taskID); err != nil {
		h.respondError(c, err, "tasks_delete_failed", "user_id", id.ID, "task_id", taskID)
		return
	}
	c.Status(http.StatusNoContent)
}

// taskIDParam parses the :id path segment. Non-numeric or non-positive ids get a 400.
func (h *Handler) taskIDParam(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	taskID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || taskID <= 0 {
		h.log.Infow("tasks_bad_id", "id", raw)
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsgInvalidTaskID})
		return 0, false
	}
	return taskID, true
}
