// Package rest exposes the task backend over HTTP.
package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todotrek/internal/rest/handlers"
)

// Services bundles what the router dispatches to.
type Services struct {
	Auth       handlers.AuthService
	Projects   handlers.ProjectService
	Categories handlers.CategoryService
	Tasks      handlers.TaskService
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc Services, log *logrus.Entry) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "TodoTrek API is running"})
	})

	require := handlers.RequireToken(svc.Auth, log)
	handlers.NewAuthHandler(svc.Auth, require, log).EnrichRoutes(router)
	handlers.NewProjectHandler(svc.Projects, require, log).EnrichRoutes(router)
	handlers.NewCategoryHandler(svc.Categories, require, log).EnrichRoutes(router)
	handlers.NewTaskHandler(svc.Tasks, require, log).EnrichRoutes(router)

	return router
}

func requestLogger(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("request")
	}
}
