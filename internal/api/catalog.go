package api

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"promptcraft_server/internal/parser"
	"promptcraft_server/internal/schema"
	"promptcraft_server/internal/studio"
	"promptcraft_server/internal/templates"
)

type ComponentInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Contract    json.RawMessage `json:"contract"`
}

type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// POST /render
// Renders any schema sent in the body. ?fragment=true returns only the
// component tree instead of a full document.
func (h *APIHandler) Render(c *gin.Context) {
	var s schema.LayoutSchema
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid layout schema: " + err.Error()})
		return
	}

	if c.Query("fragment") != "true" {
		h.writeDocument(c, s)
		return
	}
	var buf bytes.Buffer
	if err := h.renderer.RenderHTML(&buf, s.Components); err != nil {
		log.Printf("ERROR: Failed to render fragment for %s: %v", s.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render layout"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// GET /registry
func (h *APIHandler) ListComponents(c *gin.Context) {
	comps := h.registry.Components()
	out := make([]ComponentInfo, 0, len(comps))
	for _, comp := range comps {
		out = append(out, ComponentInfo{Name: string(comp.Name), Description: comp.Description, Contract: comp.Contract()})
	}
	c.JSON(http.StatusOK, out)
}

// POST /registry/:type/validate
func (h *APIHandler) ValidateProps(c *gin.Context) {
	name := c.Param("type")
	if _, ok := h.registry.Resolve(name); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown component type: " + name})
		return
	}

	var props schema.Props
	if err := c.ShouldBindJSON(&props); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid props: " + err.Error()})
		return
	}

	if err := h.registry.Validate(name, props); err != nil {
		c.JSON(http.StatusOK, ValidateResponse{Valid: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, ValidateResponse{Valid: true})
}

// GET /templates
func (h *APIHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, templates.All())
}

// POST /templates/:id/apply
func (h *APIHandler) ApplyTemplate(c *gin.Context) {
	tpl, ok := templates.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	s := h.studio.Load(tpl.Instantiate())
	log.Printf("Applied template %s as layout %s", tpl.ID, s.ID)
	c.JSON(http.StatusCreated, studio.Result{Schema: s, Source: studio.SourceTemplate, Prompt: s.Description})
}

// GET /prompts/examples
func (h *APIHandler) ExamplePrompts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"prompts": parser.ExamplePrompts})
}
