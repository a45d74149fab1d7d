package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the API endpoints. limiter guards the studio's
// POST endpoints and may be nil.
func RegisterRoutes(router *gin.Engine, h *APIHandler, limiter *RateLimiter) {
	router.GET("/health", h.Health)

	studioGroup := router.Group("/studio")
	{
		studioGroup.GET("/schema", h.CurrentSchema)
		studioGroup.GET("/history", h.History)
		studioGroup.DELETE("/history", h.ResetHistory)
		studioGroup.GET("/preview", h.Preview)

		writes := studioGroup.Group("")
		if limiter != nil {
			writes.Use(limiter.Middleware())
		}
		writes.POST("/generate", h.Generate)
		writes.POST("/undo", h.Undo)
		writes.POST("/redo", h.Redo)
		writes.POST("/suggestions", h.Suggestions)
		writes.POST("/suggestions/apply", h.ApplySuggestion)
		writes.POST("/enhance", h.Enhance)
	}

	router.POST("/render", h.Render)

	router.GET("/registry", h.ListComponents)
	router.POST("/registry/:type/validate", h.ValidateProps)

	router.GET("/templates", h.ListTemplates)
	router.POST("/templates/:id/apply", h.ApplyTemplate)

	projectGroup := router.Group("/projects")
	{
		projectGroup.GET("", h.ListProjects)
		projectGroup.POST("", h.CreateProject)
		projectGroup.GET("/export", h.ExportProjects)
		projectGroup.POST("/import", h.ImportProjects)
		projectGroup.GET("/:id", h.GetProject)
		projectGroup.PUT("/:id", h.UpdateProject)
		projectGroup.DELETE("/:id", h.DeleteProject)
		projectGroup.POST("/:id/load", h.LoadProject)
	}

	router.GET("/generations", h.ListGenerations)
	router.DELETE("/generations", h.ClearGenerations)

	router.GET("/preferences", h.GetPreferences)
	router.PUT("/preferences", h.SavePreferences)

	router.GET("/prompts/examples", h.ExamplePrompts)
}
