package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	tasksform "todotrek/internal/rest/forms/tasks"
	"todotrek/internal/rest/response"
	"todotrek/internal/service"
)

type Task struct {
	log     *logrus.Entry
	svc     TaskService
	require gin.HandlerFunc
}

func NewTaskHandler(svc TaskService, require gin.HandlerFunc, log *logrus.Entry) *Task {
	return &Task{log: log, svc: svc, require: require}
}

func (h *Task) EnrichRoutes(router *gin.Engine) {
	taskRoutes := router.Group("/task", h.require)
	taskRoutes.POST("/create", h.createTaskAction)
	taskRoutes.GET("", h.listTasksAction)
	taskRoutes.GET("/", h.listTasksAction)
	taskRoutes.GET("/:id", h.getTaskAction)
	taskRoutes.PATCH("/change-completion/:id", h.changeCompletionAction)
	taskRoutes.PATCH("/:id", h.updateTaskAction)
	taskRoutes.DELETE("/:id", h.deleteTaskAction)
}

// createTaskAction creates a task under the project or category named by
// ?id=, or a standalone task when id is absent.
func (h *Task) createTaskAction(c *gin.Context) {
	const op = "handlers.Task.createTaskAction"
	log := h.log.WithField("operation", op)

	form, verr := tasksform.NewCreateTaskForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}
	f := form.(*tasksform.CreateTaskForm)

	task, err := h.svc.Create(c.Request.Context(), actorID(c), service.TaskInput{
		Body:     f.Body,
		DueDate:  f.DueDate,
		Priority: f.Priority,
		ParentID: c.Query("id"),
	})
	if err != nil {
		log.WithError(err).Info("failed to create task")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *Task) listTasksAction(c *gin.Context) {
	const op = "handlers.Task.listTasksAction"
	log := h.log.WithField("operation", op)

	tasks, err := h.svc.List(c.Request.Context(), actorID(c), service.TaskListFilter{
		ProjectID:  c.Query("pid"),
		CategoryID: c.Query("cid"),
		OwnerID:    c.Query("uid"),
	}, c.Query("sortBy"))
	if err != nil {
		log.WithError(err).Info("failed to list tasks")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *Task) getTaskAction(c *gin.Context) {
	const op = "handlers.Task.getTaskAction"
	log := h.log.WithField("operation", op)

	task, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.WithError(err).Info("failed to get task")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Task) changeCompletionAction(c *gin.Context) {
	const op = "handlers.Task.changeCompletionAction"
	log := h.log.WithField("operation", op)

	form, verr := tasksform.NewChangeCompletionForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}

	task, err := h.svc.SetCompletion(c.Request.Context(), actorID(c), c.Param("id"), form.(*tasksform.ChangeCompletionForm).IsCompleted)
	if err != nil {
		log.WithError(err).Info("failed to change completion")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Task) updateTaskAction(c *gin.Context) {
	const op = "handlers.Task.updateTaskAction"
	log := h.log.WithField("operation", op)

	form, verr := tasksform.NewUpdateTaskForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}
	f := form.(*tasksform.UpdateTaskForm)

	task, err := h.svc.Update(c.Request.Context(), actorID(c), c.Param("id"), service.TaskPatch{
		Body:         f.Body,
		DueDate:      f.DueDate,
		ClearDueDate: f.ClearDueDate,
		Priority:     f.Priority,
		ProjectID:    f.ProjectID,
		CategoryID:   f.CategoryID,
	})
	if err != nil {
		log.WithError(err).Info("failed to update task")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Task) deleteTaskAction(c *gin.Context) {
	const op = "handlers.Task.deleteTaskAction"
	log := h.log.WithField("operation", op)

	if err := h.svc.Delete(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		log.WithError(err).Info("failed to delete task")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, message{Message: "Task successfully deleted"})
}
