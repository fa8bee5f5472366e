package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/http/middleware"
)

// UserHandlers serves the caller's profile and user administration
type UserHandlers struct {
	userSvc domain.UserService
	log     logrus.FieldLogger
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(userSvc domain.UserService, log logrus.FieldLogger) *UserHandlers {
	return &UserHandlers{userSvc: userSvc, log: log}
}

// ProfileUpdateRequest carries the fields a user may change on their own profile
type ProfileUpdateRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
}

// UserUpdateRequest carries the fields an administrator may change. The password is never writable here.
type UserUpdateRequest struct {
	FirstName   *string    `json:"first_name" binding:"omitempty,max=100"`
	LastName    *string    `json:"last_name" binding:"omitempty,max=100"`
	Author      *bool      `json:"author"`
	IsStaff     *bool      `json:"is_staff"`
	IsAdmin     *bool      `json:"is_admin"`
	SpecialUser *time.Time `json:"special_user"`
}

// Profile returns the caller
func (h *UserHandlers) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, userResponse(middleware.CurrentUser(c)))
}

// UpdateProfile changes the caller's names
func (h *UserHandlers) UpdateProfile(c *gin.Context) {
	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), middleware.CurrentUser(c).ID, domain.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// DeleteProfile removes the caller's account
func (h *UserHandlers) DeleteProfile(c *gin.Context) {
	if err := h.userSvc.Delete(c.Request.Context(), middleware.CurrentUser(c).ID); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List returns users filtered by ?author, ?search and ?ordering
func (h *UserHandlers) List(c *gin.Context) {
	filter := domain.UserFilter{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Page:     pageQuery(c, domain.DefaultPageSize),
	}
	if raw := c.Query("author"); raw != "" {
		author, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"author": []string{"Select a valid choice."}})
			return
		}
		filter.Author = &author
	}

	users, total, err := h.userSvc.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	results := make([]UserResponse, 0, len(users))
	for i := range users {
		results = append(results, userResponse(&users[i]))
	}
	paginated(c, total, results)
}

// Get returns one user
func (h *UserHandlers) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := h.userSvc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// Update changes a user's names, flags and subscription
func (h *UserHandlers) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, domain.UserUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Author:      req.Author,
		IsStaff:     req.IsStaff,
		IsAdmin:     req.IsAdmin,
		SpecialUser: req.SpecialUser,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// Delete removes a user
func (h *UserHandlers) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.userSvc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
