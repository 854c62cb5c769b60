package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	categoriesform "todotrek/internal/rest/forms/categories"
	"todotrek/internal/rest/response"
	"todotrek/internal/service"
)

type Category struct {
	log     *logrus.Entry
	svc     CategoryService
	require gin.HandlerFunc
}

func NewCategoryHandler(svc CategoryService, require gin.HandlerFunc, log *logrus.Entry) *Category {
	return &Category{log: log, svc: svc, require: require}
}

func (h *Category) EnrichRoutes(router *gin.Engine) {
	categoryRoutes := router.Group("/category", h.require)
	categoryRoutes.POST("/create/:pid", h.createCategoryAction)
	categoryRoutes.GET("/project/:pid", h.listCategoriesAction)
	categoryRoutes.GET("/:id", h.getCategoryAction)
	categoryRoutes.PATCH("/:id", h.updateCategoryAction)
	categoryRoutes.DELETE("/:id", h.deleteCategoryAction)
}

func (h *Category) createCategoryAction(c *gin.Context) {
	const op = "handlers.Category.createCategoryAction"
	log := h.log.WithField("operation", op)

	form, verr := categoriesform.NewCreateCategoryForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}

	category, err := h.svc.Create(c.Request.Context(), actorID(c), c.Param("pid"), form.(*categoriesform.CreateCategoryForm).Name)
	if err != nil {
		log.WithError(err).Info("failed to create category")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *Category) listCategoriesAction(c *gin.Context) {
	const op = "handlers.Category.listCategoriesAction"
	log := h.log.WithField("operation", op)

	categories, err := h.svc.ListByProject(c.Request.Context(), c.Param("pid"), c.Query("sortBy"))
	if err != nil {
		log.WithError(err).Info("failed to list categories")
		response.HandleError(response.ResolveError(err), c)
		return
	}
	if categories == nil {
		categories = []service.CategoryView{}
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Category) getCategoryAction(c *gin.Context) {
	const op = "handlers.Category.getCategoryAction"
	log := h.log.WithField("operation", op)

	category, err := h.svc.Get(c.Request.Context(), c.Param("id"), c.Query("sortBy"))
	if err != nil {
		log.WithError(err).Info("failed to get category")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

func (h *Category) updateCategoryAction(c *gin.Context) {
	const op = "handlers.Category.updateCategoryAction"
	log := h.log.WithField("operation", op)

	form, verr := categoriesform.NewUpdateCategoryForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}
	f := form.(*categoriesform.UpdateCategoryForm)

	category, err := h.svc.Update(c.Request.Context(), actorID(c), c.Param("id"), service.CategoryPatch{
		Name:      f.Name,
		ProjectID: f.Project,
	})
	if err != nil {
		log.WithError(err).Info("failed to update category")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

func (h *Category) deleteCategoryAction(c *gin.Context) {
	const op = "handlers.Category.deleteCategoryAction"
	log := h.log.WithField("operation", op)

	if err := h.svc.Delete(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		log.WithError(err).Info("failed to delete category")
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, message{Message: "Category successfully deleted"})
}
