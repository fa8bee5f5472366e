package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// UserResponse is the public shape of a user
type UserResponse struct {
	ID              uint      `json:"id"`
	Phone           string    `json:"phone"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Author          bool      `json:"author"`
	SpecialUser     time.Time `json:"special_user"`
	IsStaff         bool      `json:"is_staff"`
	IsAdmin         bool      `json:"is_admin"`
	TwoStepPassword bool      `json:"two_step_password"`
	DateJoined      time.Time `json:"date_joined"`
}

func userResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Phone:           u.Phone,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Author:          u.Author,
		SpecialUser:     u.SpecialUser,
		IsStaff:         u.IsStaff,
		IsAdmin:         u.IsAdmin,
		TwoStepPassword: u.TwoStepPassword,
		DateJoined:      u.DateJoined,
	}
}

func authorName(u *domain.User) gin.H {
	if u == nil {
		return gin.H{"first_name": "", "last_name": ""}
	}
	return gin.H{"first_name": u.FirstName, "last_name": u.LastName}
}

// BlogListItem is the shape of a blog in listings
type BlogListItem struct {
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Image    string   `json:"image"`
	Summary  string   `json:"summary"`
	Author   gin.H    `json:"author"`
	Category []string `json:"category"`
}

// BlogDetail is the shape of a single blog
type BlogDetail struct {
	ID       uint      `json:"id"`
	Author   gin.H     `json:"author"`
	Title    string    `json:"title"`
	Slug     string    `json:"slug"`
	Body     string    `json:"body"`
	Image    string    `json:"image"`
	Summary  string    `json:"summary"`
	Category []uint    `json:"category"`
	Publish  time.Time `json:"publish"`
	Special  bool      `json:"special"`
	Status   string    `json:"status"`
	Likes    int64     `json:"likes"`
	Visits   uint      `json:"visits"`
}

func blogListItem(b *domain.Blog, media domain.MediaStore) BlogListItem {
	return BlogListItem{
		Title:    b.Title,
		Slug:     b.Slug,
		Image:    media.URL(b.Image),
		Summary:  b.Summary,
		Author:   authorName(b.Author),
		Category: b.CategoryTitles(),
	}
}

func blogDetail(b *domain.Blog, media domain.MediaStore) BlogDetail {
	categories := make([]uint, 0, len(b.Categories))
	for _, c := range b.Categories {
		categories = append(categories, c.ID)
	}
	return BlogDetail{
		ID:       b.ID,
		Author:   authorName(b.Author),
		Title:    b.Title,
		Slug:     b.Slug,
		Body:     b.Body,
		Image:    media.URL(b.Image),
		Summary:  b.Summary,
		Category: categories,
		Publish:  b.Publish,
		Special:  b.Special,
		Status:   string(b.Status),
		Likes:    b.Likes,
		Visits:   b.Visits,
	}
}

// CategoryResponse is the listing shape of a category
type CategoryResponse struct {
	ID       uint   `json:"id"`
	Parent   gin.H  `json:"parent"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Position int    `json:"position"`
}

func categoryResponse(c *domain.Category) CategoryResponse {
	resp := CategoryResponse{ID: c.ID, Title: c.Title, Slug: c.Slug, Position: c.Position}
	if c.Parent != nil {
		resp.Parent = gin.H{"title": c.Parent.Title}
	}
	return resp
}

// CommentResponse is a comment with its nested replies
type CommentResponse struct {
	ID       uint              `json:"id"`
	User     string            `json:"user"`
	Name     *string           `json:"name"`
	Body     string            `json:"body"`
	Parent   *uint             `json:"parent"`
	Created  time.Time         `json:"created"`
	Updated  time.Time         `json:"updated"`
	Children []CommentResponse `json:"children,omitempty"`
}

func commentResponse(c *domain.Comment) CommentResponse {
	resp := CommentResponse{
		ID:      c.ID,
		Name:    c.Name,
		Body:    c.Body,
		Parent:  c.ParentID,
		Created: c.CreatedAt,
		Updated: c.UpdatedAt,
	}
	if c.User != nil {
		resp.User = c.User.Phone
	}
	for _, child := range c.Children {
		resp.Children = append(resp.Children, commentResponse(child))
	}
	return resp
}
