package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/config"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/http/handlers"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/http/middleware"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/infrastructure/auth"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/logging"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/mocks"
)

var routerUsers = map[string]*domain.User{
	"user-token":   {ID: 1, Phone: "989120000001"},
	"author-token": {ID: 2, Phone: "989120000002", Author: true},
	"admin-token":  {ID: 3, Phone: "989120000003", IsStaff: true, IsAdmin: true},
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logging.Discard()

	m, err := model.NewModelFromString(auth.DefaultModel)
	require.NoError(t, err)
	enforcer, err := casbin.NewEnforcer(m)
	require.NoError(t, err)
	policies, groupings := config.DefaultPolicySeeds().Rows()
	_, err = enforcer.AddPolicies(policies)
	require.NoError(t, err)
	_, err = enforcer.AddGroupingPolicies(groupings)
	require.NoError(t, err)

	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
		user, ok := routerUsers[token]
		if !ok {
			return nil, domain.ErrTokenInvalid
		}
		return &domain.TokenClaims{UserID: user.ID, Role: user.Role(), SessionID: token, TokenType: "access"}, nil
	}
	sessionRepo := mocks.NewMockSessionRepository()
	sessionRepo.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
		user, ok := routerUsers[sessionID]
		if !ok {
			return nil, domain.ErrSessionNotFound
		}
		return &domain.Session{ID: sessionID, UserID: user.ID}, nil
	}
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
		for _, u := range routerUsers {
			if u.ID == id {
				return u, nil
			}
		}
		return nil, domain.ErrUserNotFound
	}

	blogSvc := mocks.NewMockBlogService()
	blogSvc.UpdateFunc = func(ctx context.Context, editor *domain.User, slug string, input domain.BlogInput) (*domain.Blog, error) {
		return &domain.Blog{ID: 1, Slug: slug, Title: input.Title, Author: editor}, nil
	}

	media := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(media, "/blog/images/cover.png", []byte("png"), 0o644))

	h := Handlers{
		Auth:     handlers.NewAuthHandlers(mocks.NewMockAuthService(), mocks.NewMockOTPService(), log),
		Users:    handlers.NewUserHandlers(mocks.NewMockUserService(), log),
		Blogs:    handlers.NewBlogHandlers(blogSvc, mocks.NewMockMediaStore(), 1<<20, log),
		Category: handlers.NewCategoryHandlers(mocks.NewMockCategoryService(), log),
		Comments: handlers.NewCommentHandlers(mocks.NewMockCommentService(), log),
		Policies: handlers.NewPolicyHandlers(mocks.NewMockPolicyService(), log),
	}
	return BuildRouter(h,
		middleware.NewAuthMW(tokenSvc, sessionRepo, userRepo),
		middleware.NewCasbinMW(enforcer, log),
		log,
		RouterOptions{
			MediaFs:        media,
			MediaPath:      "/media",
			MetricsEnabled: true,
			OTPLimiter:     middleware.NewRateLimiter(60, 1, log),
		},
	)
}

func TestBuildRouter_Access(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		token          string
		body           string
		expectedStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", expectedStatus: http.StatusOK},
		{name: "media", method: http.MethodGet, path: "/media/blog/images/cover.png", expectedStatus: http.StatusOK},
		{name: "anonymous blog list", method: http.MethodGet, path: "/api/blog", expectedStatus: http.StatusOK},
		{name: "anonymous category list", method: http.MethodGet, path: "/api/blog/categories", expectedStatus: http.StatusOK},
		{name: "anonymous comments", method: http.MethodGet, path: "/api/comment/4", expectedStatus: http.StatusOK},
		{name: "anonymous profile", method: http.MethodGet, path: "/api/account/profile", expectedStatus: http.StatusUnauthorized},
		{name: "user profile", method: http.MethodGet, path: "/api/account/profile", token: "user-token", expectedStatus: http.StatusOK},
		{name: "user cannot list users", method: http.MethodGet, path: "/api/account/users", token: "user-token", expectedStatus: http.StatusForbidden},
		{name: "admin lists users", method: http.MethodGet, path: "/api/account/users", token: "admin-token", expectedStatus: http.StatusOK},
		{name: "user cannot write blogs", method: http.MethodPut, path: "/api/blog/post", token: "user-token", body: `{"title":"t","body":"b"}`, expectedStatus: http.StatusForbidden},
		{name: "author writes blogs", method: http.MethodPut, path: "/api/blog/post", token: "author-token", body: `{"title":"t","body":"b"}`, expectedStatus: http.StatusOK},
		{name: "user likes", method: http.MethodPost, path: "/api/blog/post/like", token: "user-token", expectedStatus: http.StatusOK},
		{name: "author cannot add categories", method: http.MethodPost, path: "/api/blog/categories", token: "author-token", body: `{"title":"Go"}`, expectedStatus: http.StatusForbidden},
		{name: "admin adds categories", method: http.MethodPost, path: "/api/blog/categories", token: "admin-token", body: `{"title":"Go"}`, expectedStatus: http.StatusCreated},
		{name: "user comments", method: http.MethodPost, path: "/api/comment/create", token: "user-token", body: `{"object_id":4,"body":"hi"}`, expectedStatus: http.StatusCreated},
		{name: "user cannot moderate", method: http.MethodGet, path: "/api/admin/comments", token: "user-token", expectedStatus: http.StatusForbidden},
		{name: "admin moderates", method: http.MethodGet, path: "/api/admin/comments", token: "admin-token", expectedStatus: http.StatusOK},
		{name: "admin policies", method: http.MethodGet, path: "/api/admin/policies", token: "admin-token", expectedStatus: http.StatusOK},
		{name: "bad token", method: http.MethodGet, path: "/api/account/profile", token: "forged", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestBuildRouter_ThrottlesCodeRequests(t *testing.T) {
	r := newTestRouter(t)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/account/login", strings.NewReader(`{"phone":"989120000001"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.1.1.1:4000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}
