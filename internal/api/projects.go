package api

import (
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"promptcraft_server/internal/schema"
	"promptcraft_server/internal/storage"
	"promptcraft_server/internal/studio"
)

const maxImportBytes = 10 << 20

type SaveProjectRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Prompt      string               `json:"prompt"`
	Schema      *schema.LayoutSchema `json:"schema"`
}

// GET /projects
func (h *APIHandler) ListProjects(c *gin.Context) {
	projects, err := h.store.ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list projects")
		return
	}
	c.JSON(http.StatusOK, projects)
}

// POST /projects
// Without a schema in the body the studio's current layout is saved.
func (h *APIHandler) CreateProject(c *gin.Context) {
	var req SaveProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var s schema.LayoutSchema
	if req.Schema != nil {
		s = studio.Finalize(*req.Schema, req.Prompt)
	} else {
		current, err := h.studio.Current()
		if err != nil {
			respondError(c, err, "Failed to load current layout")
			return
		}
		s = current
		if req.Prompt == "" {
			req.Prompt = h.studio.Prompt()
		}
	}

	p, err := h.store.SaveProject(c.Request.Context(), schema.Project{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Prompt:      req.Prompt,
		Schema:      s,
	})
	if err != nil {
		respondError(c, err, "Failed to save project")
		return
	}
	log.Printf("Saved project %s (%s)", p.ID, p.Name)
	c.JSON(http.StatusCreated, p)
}

// GET /projects/:id
func (h *APIHandler) GetProject(c *gin.Context) {
	p, err := h.store.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load project")
		return
	}
	c.JSON(http.StatusOK, p)
}

// PUT /projects/:id
func (h *APIHandler) UpdateProject(c *gin.Context) {
	var patch storage.ProjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	p, err := h.store.UpdateProject(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err, "Failed to update project")
		return
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /projects/:id
func (h *APIHandler) DeleteProject(c *gin.Context) {
	if err := h.store.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete project")
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /projects/:id/load
func (h *APIHandler) LoadProject(c *gin.Context) {
	p, err := h.store.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load project")
		return
	}

	s := h.studio.Load(p.Schema)
	c.JSON(http.StatusOK, studio.Result{Schema: s, Source: studio.SourceProject, Prompt: p.Prompt})
}

// GET /projects/export
func (h *APIHandler) ExportProjects(c *gin.Context) {
	data, err := h.store.ExportProjects(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to export projects")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="promptcraft-projects.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// POST /projects/import
// The body must be a JSON array of projects; it replaces every stored project.
func (h *APIHandler) ImportProjects(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	ok, err := h.store.ImportProjects(c.Request.Context(), data)
	if err != nil {
		respondError(c, err, "Failed to import projects")
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"imported": false, "error": "Expected a JSON array of projects"})
		return
	}

	projects, err := h.store.ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list projects")
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": true, "count": len(projects)})
}

// GET /generations?limit=N
func (h *APIHandler) ListGenerations(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	gens, err := h.store.ListGenerations(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to list generations")
		return
	}
	c.JSON(http.StatusOK, gens)
}

// DELETE /generations
func (h *APIHandler) ClearGenerations(c *gin.Context) {
	n, err := h.store.ClearGenerations(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to clear generations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// GET /preferences
func (h *APIHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.store.GetPreferences(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load preferences")
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// PUT /preferences
func (h *APIHandler) SavePreferences(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}
	prefs, err := h.store.SavePreferences(c.Request.Context(), data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid preferences: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, prefs)
}
