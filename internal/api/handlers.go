package api

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"promptcraft_server/internal/ai"
	"promptcraft_server/internal/registry"
	"promptcraft_server/internal/render"
	"promptcraft_server/internal/schema"
	"promptcraft_server/internal/storage"
	"promptcraft_server/internal/studio"
)

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	studio      *studio.Studio
	aiGenerator *ai.Generator
	store       *storage.Store
	registry    *registry.Registry
	renderer    *render.Renderer
}

// NewAPIHandler wires the handlers to their dependencies and records every
// committed generation in the store's generation log.
func NewAPIHandler(st *studio.Studio, aiGen *ai.Generator, store *storage.Store, reg *registry.Registry) *APIHandler {
	h := &APIHandler{
		studio:      st,
		aiGenerator: aiGen,
		store:       store,
		registry:    reg,
		renderer:    render.New(reg),
	}
	st.OnGenerated(h.logGeneration)
	return h
}

func (h *APIHandler) logGeneration(res studio.Result) {
	_, err := h.store.AddGeneration(context.Background(), storage.Generation{
		Prompt:         res.Prompt,
		Source:         string(res.Source),
		SchemaID:       res.Schema.ID,
		SchemaName:     res.Schema.Name,
		ComponentCount: len(res.Schema.Components),
		Notice:         res.Notice,
	})
	if err != nil {
		log.Printf("WARN: Failed to record generation for prompt %q: %v", res.Prompt, err)
	}
}

// --- Structs for API Requests/Responses ---

type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type SuggestionRequest struct {
	Suggestion string `json:"suggestion" binding:"required"`
}

type EnhanceResponse struct {
	Original string `json:"original"`
	Prompt   string `json:"prompt"`
}

type HistoryResponse struct {
	Past    int                  `json:"past"`
	Future  int                  `json:"future"`
	CanUndo bool                 `json:"canUndo"`
	CanRedo bool                 `json:"canRedo"`
	Present *schema.LayoutSchema `json:"present"`
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	msg := fallback
	switch {
	case errors.Is(err, studio.ErrGenerationInFlight):
		status, msg = http.StatusConflict, "A generation is already in progress"
	case errors.Is(err, studio.ErrEmptyPrompt):
		status, msg = http.StatusBadRequest, "Prompt must not be empty"
	case errors.Is(err, studio.ErrNothingToUndo):
		status, msg = http.StatusConflict, "Nothing to undo"
	case errors.Is(err, studio.ErrNothingToRedo):
		status, msg = http.StatusConflict, "Nothing to redo"
	case errors.Is(err, studio.ErrNoSchema):
		status, msg = http.StatusNotFound, "No layout has been generated yet"
	case errors.Is(err, storage.ErrNotFound):
		status, msg = http.StatusNotFound, "Project not found"
	default:
		log.Printf("ERROR: %s: %v", fallback, err)
	}
	c.JSON(status, gin.H{"error": msg})
}

// --- API Handlers ---

// GET /health
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"ai":         h.aiGenerator.Enabled(),
		"generating": h.studio.Generating(),
	})
}

// POST /studio/generate
func (h *APIHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	log.Printf("Received generation request: %q", req.Prompt)
	res, err := h.studio.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		respondError(c, err, "Failed to generate layout")
		return
	}

	log.Printf("Generated layout %s (%s, %d components)", res.Schema.ID, res.Source, len(res.Schema.Components))
	c.JSON(http.StatusCreated, res)
}

// POST /studio/undo
func (h *APIHandler) Undo(c *gin.Context) {
	s, err := h.studio.Undo()
	if err != nil {
		respondError(c, err, "Failed to undo")
		return
	}
	c.JSON(http.StatusOK, s)
}

// POST /studio/redo
func (h *APIHandler) Redo(c *gin.Context) {
	s, err := h.studio.Redo()
	if err != nil {
		respondError(c, err, "Failed to redo")
		return
	}
	c.JSON(http.StatusOK, s)
}

// GET /studio/schema
func (h *APIHandler) CurrentSchema(c *gin.Context) {
	s, err := h.studio.Current()
	if err != nil {
		respondError(c, err, "Failed to load current layout")
		return
	}
	c.JSON(http.StatusOK, s)
}

// GET /studio/history
func (h *APIHandler) History(c *gin.Context) {
	st := h.studio.History()
	c.JSON(http.StatusOK, HistoryResponse{
		Past:    len(st.Past),
		Future:  len(st.Future),
		CanUndo: st.Present != nil && len(st.Past) > 0,
		CanRedo: st.Present != nil && len(st.Future) > 0,
		Present: st.Present,
	})
}

// DELETE /studio/history
func (h *APIHandler) ResetHistory(c *gin.Context) {
	h.studio.Reset()
	c.Status(http.StatusNoContent)
}

// GET /studio/preview
func (h *APIHandler) Preview(c *gin.Context) {
	s, err := h.studio.Current()
	if err != nil {
		respondError(c, err, "Failed to load current layout")
		return
	}
	h.writeDocument(c, s)
}

func (h *APIHandler) writeDocument(c *gin.Context, s schema.LayoutSchema) {
	var buf bytes.Buffer
	if err := h.renderer.Document(&buf, s); err != nil {
		log.Printf("ERROR: Failed to render layout %s: %v", s.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render layout"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// POST /studio/suggestions
func (h *APIHandler) Suggestions(c *gin.Context) {
	s, err := h.studio.Current()
	if err != nil {
		respondError(c, err, "Failed to load current layout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": h.aiGenerator.Suggestions(c.Request.Context(), s)})
}

// POST /studio/suggestions/apply
func (h *APIHandler) ApplySuggestion(c *gin.Context) {
	var req SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	res, err := h.studio.ApplySuggestion(c.Request.Context(), req.Suggestion)
	if err != nil {
		respondError(c, err, "Failed to apply suggestion")
		return
	}
	c.JSON(http.StatusCreated, res)
}

// POST /studio/enhance
func (h *APIHandler) Enhance(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, EnhanceResponse{
		Original: req.Prompt,
		Prompt:   h.aiGenerator.EnhancePrompt(c.Request.Context(), req.Prompt),
	})
}
