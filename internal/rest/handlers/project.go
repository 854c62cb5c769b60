package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	projectsform "todotrek/internal/rest/forms/projects"
	"todotrek/internal/rest/response"
	"todotrek/internal/service"
)

type Project struct {
	log     *logrus.Entry
	svc     ProjectService
	require gin.HandlerFunc
}

func NewProjectHandler(svc ProjectService, require gin.HandlerFunc, log *logrus.Entry) *Project {
	return &Project{log: log, svc: svc, require: require}
}

func (h *Project) EnrichRoutes(router *gin.Engine) {
	projectRoutes := router.Group("/project", h.require)
	projectRoutes.POST("/create", h.createProjectAction)
	projectRoutes.GET("/user", h.listProjectsAction)
	projectRoutes.GET("/:id", h.getProjectAction)
	projectRoutes.PATCH("/:id", h.updateProjectAction)
	projectRoutes.DELETE("/:id", h.deleteProjectAction)
}

func (h *Project) createProjectAction(c *gin.Context) {
	const op = "handlers.Project.createProjectAction"
	log := h.log.WithField("operation", op)

	form, verr := projectsform.NewCreateProjectForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}
	f := form.(*projectsform.CreateProjectForm)

	project, err := h.svc.Create(c.Request.Context(), actorID(c), service.ProjectInput{
		Name:        f.Name,
		Color:       f.Color,
		IsFavourite: f.Favourites,
	})
	if err != nil {
		log.WithError(err).Error("failed to create project")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// listProjectsAction lists the projects of ?id=, defaulting to the caller.
func (h *Project) listProjectsAction(c *gin.Context) {
	const op = "handlers.Project.listProjectsAction"
	log := h.log.WithField("operation", op)

	ownerID := c.Query("id")
	if ownerID == "" {
		ownerID = actorID(c)
	}

	projects, err := h.svc.ListByOwner(c.Request.Context(), ownerID, c.Query("sortBy"))
	if err != nil {
		log.WithError(err).Warn("failed to list projects")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (h *Project) getProjectAction(c *gin.Context) {
	const op = "handlers.Project.getProjectAction"
	log := h.log.WithField("operation", op)

	project, err := h.svc.Get(c.Request.Context(), c.Param("id"), c.Query("sortBy"))
	if err != nil {
		log.WithError(err).Info("failed to get project")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *Project) updateProjectAction(c *gin.Context) {
	const op = "handlers.Project.updateProjectAction"
	log := h.log.WithField("operation", op)

	form, verr := projectsform.NewUpdateProjectForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}
	f := form.(*projectsform.UpdateProjectForm)

	project, err := h.svc.Update(c.Request.Context(), actorID(c), c.Param("id"), service.ProjectPatch{
		Name:        f.Name,
		Color:       f.Color,
		IsFavourite: f.Favourites,
	})
	if err != nil {
		log.WithError(err).Info("failed to update project")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *Project) deleteProjectAction(c *gin.Context) {
	const op = "handlers.Project.deleteProjectAction"
	log := h.log.WithField("operation", op)

	if err := h.svc.Delete(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		log.WithError(err).Info("failed to delete project")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, message{Message: "Project successfully deleted"})
}
