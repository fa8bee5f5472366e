package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/theonlykingpin/ApiBlogWithOTP/internal/app"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/config"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/http/middleware"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/logging"
)

// TestServer runs the full service over SQLite and an in-memory Redis
type TestServer struct {
	Server    *httptest.Server
	Container *app.Container
	Redis     *miniredis.Miniredis
	Client    *http.Client
}

func testConfig(t *testing.T, redisAddr string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	return &config.Config{
		DSN:             "sqlite://" + filepath.Join(dir, "blog.db"),
		RedisAddr:       redisAddr,
		JWTSecret:       "e2e-secret-e2e-secret-e2e-secret-0",
		JWTIssuer:       "blog-api-e2e",
		AccessTTL:       15 * time.Minute,
		RefreshTTL:      time.Hour,
		OTP_Length:      6,
		OTP_TTL:         2 * time.Minute,
		OTP_MaxRequests: 4,
		PolicySeedsPath: filepath.Join(dir, "policies.yml"),
		MediaRoot:       filepath.Join(dir, "media"),
		MediaURL:        "/media",
		MaxUploadBytes:  1 << 20,
		MetricsEnabled:  true,
		RateLimitPerMin: 600,
		RateLimitBurst:  100,
	}
}

// NewTestServer starts the service and stops it when the test ends
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	cfg := testConfig(t, mr.Addr())
	log := logging.Discard()

	c, err := app.NewContainer(context.Background(), cfg, log)
	require.NoError(t, err)

	server := httptest.NewServer(c.Router(middleware.NewRateLimiter(cfg.RateLimitPerMin, cfg.RateLimitBurst, log)))
	t.Cleanup(func() {
		server.Close()
		c.Close()
	})

	return &TestServer{
		Server:    server,
		Container: c,
		Redis:     mr,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Do sends a JSON request, with a bearer token when token is not empty, and decodes
// the reply into out when out is not nil
func (ts *TestServer) Do(t *testing.T, method, path, token string, body, out interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// Upload sends a multipart form with fields and an "image" file named filename
func (ts *TestServer) Upload(t *testing.T, method, path, token string, fields map[string]string, filename string, image []byte, out interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(image)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// CodeFor returns the live code sent to phone
func (ts *TestServer) CodeFor(t *testing.T, phone string) string {
	t.Helper()

	code, err := ts.Container.OTPCache.Get(context.Background(), phone)
	require.NoError(t, err)
	return code
}

// Tokens is the reply of a successful verification
type Tokens struct {
	Created bool   `json:"created"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Register signs phone up through the code flow
func (ts *TestServer) Register(t *testing.T, phone string) Tokens {
	t.Helper()

	status := ts.Do(t, http.MethodPost, "/api/account/register", "", map[string]string{"phone": phone}, nil)
	require.Equal(t, http.StatusOK, status)

	var tokens Tokens
	status = ts.Do(t, http.MethodPost, "/api/account/verify", "", map[string]string{"code": ts.CodeFor(t, phone), "phone": phone}, &tokens)
	require.Equal(t, http.StatusOK, status)
	return tokens
}

// Promote sets flags on the account of phone directly in the database
func (ts *TestServer) Promote(t *testing.T, phone string, author, admin bool) {
	t.Helper()

	ctx := context.Background()
	user, err := ts.Container.UserRepo.FindByPhone(ctx, phone)
	require.NoError(t, err)
	user.Author = author
	user.IsAdmin = admin
	user.IsStaff = admin
	require.NoError(t, ts.Container.UserRepo.Update(ctx, user))
}

// RefreshAccess trades a refresh token for an access token carrying the current role
func (ts *TestServer) RefreshAccess(t *testing.T, refresh string) string {
	t.Helper()

	var body struct {
		Access string `json:"access"`
	}
	status := ts.Do(t, http.MethodPost, "/api/account/token/refresh", "", map[string]string{"refresh": refresh}, &body)
	require.Equal(t, http.StatusOK, status)
	return body.Access
}
