package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/http/middleware"
)

// BlogHandlers serves blogs and likes
type BlogHandlers struct {
	blogSvc        domain.BlogService
	media          domain.MediaStore
	maxUploadBytes int64
	log            logrus.FieldLogger
}

// NewBlogHandlers creates new blog handlers
func NewBlogHandlers(blogSvc domain.BlogService, media domain.MediaStore, maxUploadBytes int64, log logrus.FieldLogger) *BlogHandlers {
	return &BlogHandlers{
		blogSvc:        blogSvc,
		media:          media,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// BlogRequest is the writable part of a blog, sent as JSON or as a multipart form
// with an optional "image" file
type BlogRequest struct {
	Title    string     `json:"title" form:"title" binding:"required,max=200"`
	Body     string     `json:"body" form:"body" binding:"required"`
	Summary  string     `json:"summary" form:"summary"`
	Category []uint     `json:"category" form:"category"`
	Publish  *time.Time `json:"publish" form:"publish" time_format:"2006-01-02T15:04:05Z07:00"`
	Special  bool       `json:"special" form:"special"`
	Status   string     `json:"status" form:"status" binding:"omitempty,oneof=d p"`
}

// List returns the blogs visible to the caller, filtered by ?category and ?search
func (h *BlogHandlers) List(c *gin.Context) {
	filter := domain.BlogFilter{
		Search: c.Query("search"),
		Page:   pageQuery(c, domain.DefaultPageSize),
	}
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"category": []string{"Select a valid choice."}})
			return
		}
		filter.CategoryID = uint(id)
	}

	blogs, total, err := h.blogSvc.List(c.Request.Context(), middleware.CurrentUser(c), filter)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	results := make([]BlogListItem, 0, len(blogs))
	for i := range blogs {
		results = append(results, blogListItem(&blogs[i], h.media))
	}
	paginated(c, total, results)
}

// Get returns one blog by slug
func (h *BlogHandlers) Get(c *gin.Context) {
	blog, err := h.blogSvc.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("slug"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, blogDetail(blog, h.media))
}

// Create publishes a new blog for the caller
func (h *BlogHandlers) Create(c *gin.Context) {
	input, ok := h.bindBlog(c)
	if !ok {
		return
	}
	blog, err := h.blogSvc.Create(c.Request.Context(), middleware.CurrentUser(c), input)
	if err != nil {
		h.writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, blogDetail(blog, h.media))
}

// Update replaces the writable fields of a blog
func (h *BlogHandlers) Update(c *gin.Context) {
	input, ok := h.bindBlog(c)
	if !ok {
		return
	}
	blog, err := h.blogSvc.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("slug"), input)
	if err != nil {
		h.writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, blogDetail(blog, h.media))
}

// Delete removes a blog with its comments and image
func (h *BlogHandlers) Delete(c *gin.Context) {
	if err := h.blogSvc.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("slug")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Like toggles the caller's like on a blog
func (h *BlogHandlers) Like(c *gin.Context) {
	liked, count, err := h.blogSvc.ToggleLike(c.Request.Context(), middleware.CurrentUser(c), c.Param("slug"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": count})
}

func (h *BlogHandlers) bindBlog(c *gin.Context) (domain.BlogInput, bool) {
	multipart := strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm)
	if multipart && h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	var req BlogRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"image": []string{"The submitted file is too large."}})
			return domain.BlogInput{}, false
		}
		badRequest(c, err)
		return domain.BlogInput{}, false
	}

	input := domain.BlogInput{
		Title:       req.Title,
		Body:        req.Body,
		Summary:     req.Summary,
		CategoryIDs: req.Category,
		Publish:     req.Publish,
		Special:     req.Special,
		Status:      domain.BlogStatus(req.Status),
	}
	if !multipart {
		return input, true
	}

	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return input, true
	}
	if err != nil {
		badRequest(c, fmt.Errorf("invalid image: %w", err))
		return domain.BlogInput{}, false
	}
	src, err := file.Open()
	if err != nil {
		badRequest(c, fmt.Errorf("invalid image: %w", err))
		return domain.BlogInput{}, false
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		badRequest(c, fmt.Errorf("invalid image: %w", err))
		return domain.BlogInput{}, false
	}
	if !validImage(file.Filename, data) {
		c.JSON(http.StatusBadRequest, gin.H{"image": []string{
			"Upload a valid image. The file you uploaded was either not an image or a corrupted image.",
		}})
		return domain.BlogInput{}, false
	}
	input.ImageName = file.Filename
	input.ImageData = data
	return input, true
}

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// validImage requires a known image extension and content that sniffs as an image
func validImage(name string, data []byte) bool {
	if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
		return false
	}
	return strings.HasPrefix(http.DetectContentType(data), "image/")
}

// An unknown category in the body is a validation error rather than a missing resource
func (h *BlogHandlers) writeBlogError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrCategoryNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"category": []string{err.Error()}})
		return
	}
	writeError(c, h.log, err)
}
