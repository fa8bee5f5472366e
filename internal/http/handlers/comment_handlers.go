package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/http/middleware"
)

// AdminCommentPageSize is the page size of the comment moderation list
const AdminCommentPageSize = 30

// CommentHandlers serves threaded comments on blogs
type CommentHandlers struct {
	commentSvc domain.CommentService
	log        logrus.FieldLogger
}

// NewCommentHandlers creates new comment handlers
func NewCommentHandlers(commentSvc domain.CommentService, log logrus.FieldLogger) *CommentHandlers {
	return &CommentHandlers{commentSvc: commentSvc, log: log}
}

// CommentRequest is the body of comment create and update requests
type CommentRequest struct {
	ObjectID uint    `json:"object_id" binding:"required"`
	Name     *string `json:"name" binding:"omitempty,max=20"`
	Parent   *uint   `json:"parent"`
	Body     string  `json:"body" binding:"required"`
}

// CommentUpdateRequest changes the text of an existing comment
type CommentUpdateRequest struct {
	Name *string `json:"name" binding:"omitempty,max=20"`
	Body string  `json:"body" binding:"required"`
}

// ListForBlog returns the comment tree of a published blog
func (h *CommentHandlers) ListForBlog(c *gin.Context) {
	blogID, ok := idParam(c, "id")
	if !ok {
		return
	}
	tree, err := h.commentSvc.ListForBlog(c.Request.Context(), blogID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	results := make([]CommentResponse, 0, len(tree))
	for _, comment := range tree {
		results = append(results, commentResponse(comment))
	}
	c.JSON(http.StatusOK, results)
}

// Create posts a comment and echoes the submitted fields
func (h *CommentHandlers) Create(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	_, err := h.commentSvc.Create(c.Request.Context(), middleware.CurrentUser(c), domain.CommentInput{
		ObjectID: req.ObjectID,
		Name:     req.Name,
		ParentID: req.Parent,
		Body:     req.Body,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// Update changes the caller's own comment
func (h *CommentHandlers) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req CommentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	comment, err := h.commentSvc.Update(c.Request.Context(), middleware.CurrentUser(c), id, domain.CommentInput{
		Name: req.Name,
		Body: req.Body,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, commentResponse(comment))
}

// Delete removes the caller's own comment and its replies
func (h *CommentHandlers) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.commentSvc.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAll pages through every comment, newest first
func (h *CommentHandlers) ListAll(c *gin.Context) {
	comments, total, err := h.commentSvc.ListAll(c.Request.Context(), pageQuery(c, AdminCommentPageSize))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	results := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		results = append(results, commentResponse(&comments[i]))
	}
	paginated(c, total, results)
}
