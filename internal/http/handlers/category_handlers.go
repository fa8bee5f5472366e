package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// CategoryHandlers serves the category tree
type CategoryHandlers struct {
	categorySvc domain.CategoryService
	log         logrus.FieldLogger
}

// NewCategoryHandlers creates new category handlers
func NewCategoryHandlers(categorySvc domain.CategoryService, log logrus.FieldLogger) *CategoryHandlers {
	return &CategoryHandlers{categorySvc: categorySvc, log: log}
}

// CategoryRequest creates or updates a category
type CategoryRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Parent   *uint  `json:"parent"`
	Position int    `json:"position" binding:"min=0"`
}

// List returns every active category
func (h *CategoryHandlers) List(c *gin.Context) {
	categories, err := h.categorySvc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	results := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		results = append(results, categoryResponse(&categories[i]))
	}
	c.JSON(http.StatusOK, results)
}

// Create adds a category
func (h *CategoryHandlers) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	category, err := h.categorySvc.Create(c.Request.Context(), req.Title, req.Parent, req.Position)
	if err != nil {
		h.writeCategoryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, categoryResponse(category))
}

// Update renames or moves a category
func (h *CategoryHandlers) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	category, err := h.categorySvc.Update(c.Request.Context(), id, req.Title, req.Parent, req.Position)
	if err != nil {
		h.writeCategoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, categoryResponse(category))
}

// Delete removes a category
func (h *CategoryHandlers) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.categorySvc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CategoryHandlers) writeCategoryError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrCategoryCycle) {
		c.JSON(http.StatusBadRequest, gin.H{"parent": []string{err.Error()}})
		return
	}
	writeError(c, h.log, err)
}
