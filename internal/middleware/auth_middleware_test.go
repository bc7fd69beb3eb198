package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikkim/member-directory/internal/errors"
	"github.com/ikkim/member-directory/pkg/redis"
	"github.com/ikkim/member-directory/pkg/util"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

func setupMiddlewareTest(revoked RevocationChecker) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	middleware := NewAuthMiddleware(testJWTSecret, revoked)
	return router, middleware
}

func generateTestTokens(t *testing.T, subject util.TokenSubject) *util.TokenPair {
	tokens, err := util.GenerateTokenPair(subject, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return tokens
}

func generateTestToken(t *testing.T, id uint, role string, perms ...string) string {
	return generateTestTokens(t, util.TokenSubject{ID: id, Email: "test@example.com", Role: role, Permissions: perms}).AccessToken
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	token := generateTestToken(t, 7, util.RoleMember)

	var gotID uint
	var gotRole string
	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		gotID, _ = GetUserID(c)
		gotRole, _ = GetUserRole(c)
		_, expiresAt, ok := GetToken(c)
		assert.True(t, ok)
		assert.True(t, expiresAt.After(time.Now()))
		okHandler(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(7), gotID)
	assert.Equal(t, util.RoleMember, gotRole)
}

func TestAuthMiddleware_Authenticate_QueryToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	token := generateTestToken(t, 7, util.RoleMember)
	router.GET("/ws", authMiddleware.Authenticate(), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Authenticate_Rejects(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	router.GET("/test", authMiddleware.Authenticate(), okHandler)

	refresh := generateTestTokens(t, util.TokenSubject{ID: 1, Role: util.RoleMember}).RefreshToken

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{name: "No header", header: "", wantCode: errors.AuthUnauthorized},
		{name: "Missing Bearer prefix", header: "invalid-token", wantCode: errors.AuthTokenInvalid},
		{name: "Wrong prefix", header: "Basic token123", wantCode: errors.AuthTokenInvalid},
		{name: "Empty token", header: "Bearer ", wantCode: errors.AuthTokenInvalid},
		{name: "Garbage token", header: "Bearer invalid.jwt.token", wantCode: errors.AuthTokenInvalid},
		{name: "Refresh token", header: "Bearer " + refresh, wantCode: errors.AuthTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestAuthMiddleware_Authenticate_Expired(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	router.GET("/test", authMiddleware.Authenticate(), okHandler)

	tokens, err := util.GenerateTokenPair(util.TokenSubject{ID: 1, Role: util.RoleMember}, testJWTSecret, -time.Minute, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), errors.AuthTokenExpired)
}

func TestAuthMiddleware_Authenticate_Revoked(t *testing.T) {
	mr := miniredis.RunT(t)
	store := redis.NewTokenStore(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	defer store.Close()

	router, authMiddleware := setupMiddlewareTest(store)
	router.GET("/test", authMiddleware.Authenticate(), okHandler)

	token := generateTestToken(t, 3, util.RoleMember)
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)

	require.NoError(t, store.Blacklist(context.Background(), token, time.Minute))

	w := send()
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), errors.AuthTokenRevoked)
}

func TestAuthMiddleware_Authenticate_RevocationStoreDown(t *testing.T) {
	mr := miniredis.RunT(t)
	store := redis.NewTokenStore(goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	defer store.Close()
	mr.Close()

	router, authMiddleware := setupMiddlewareTest(store)
	router.GET("/test", authMiddleware.Authenticate(), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, 3, util.RoleMember))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	router.GET("/admin", authMiddleware.Authenticate(), authMiddleware.RequireRole(util.RoleAdmin), okHandler)
	router.GET("/any", authMiddleware.Authenticate(), authMiddleware.RequireRole(util.RoleAdmin, util.RoleMember), okHandler)

	tests := []struct {
		name           string
		path           string
		role           string
		expectedStatus int
	}{
		{name: "Admin on admin route", path: "/admin", role: util.RoleAdmin, expectedStatus: http.StatusOK},
		{name: "Member on admin route", path: "/admin", role: util.RoleMember, expectedStatus: http.StatusForbidden},
		{name: "Member on shared route", path: "/any", role: util.RoleMember, expectedStatus: http.StatusOK},
		{name: "Unknown role on shared route", path: "/any", role: "guest", expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+generateTestToken(t, 1, tt.role))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_RequirePermission(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	router.DELETE("/members/:id", authMiddleware.Authenticate(), authMiddleware.RequirePermission("members:delete"), okHandler)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{name: "Admin with permission", token: generateTestToken(t, 1, util.RoleAdmin, "members:delete"), expectedStatus: http.StatusOK},
		{name: "Admin without permission", token: generateTestToken(t, 1, util.RoleAdmin, "members:export"), expectedStatus: http.StatusForbidden},
		{name: "Member claiming permission", token: generateTestToken(t, 1, util.RoleMember, "members:delete"), expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/members/4", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestContextGetters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, exists := GetUserID(c)
	assert.False(t, exists)
	assert.False(t, IsAdmin(c))
	assert.False(t, IsMember(c, 5))

	c.Set(UserIDKey, uint(5))
	c.Set(UserEmailKey, "m@example.com")
	c.Set(UserRoleKey, util.RoleMember)

	id, _ := GetUserID(c)
	email, _ := GetUserEmail(c)
	assert.Equal(t, uint(5), id)
	assert.Equal(t, "m@example.com", email)
	assert.True(t, IsMember(c, 5))
	assert.False(t, IsMember(c, 6))
	assert.False(t, IsAdmin(c))
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	router.GET("/test", func(c *gin.Context) {
		assert.NotNil(t, GetLoggerFromContext(c))
		okHandler(c)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get(RequestIDHeader))
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	router.POST("/register", authMiddleware.OptionalAuthenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": IsAdmin(c)})
	})

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"Anonymous", "", http.StatusOK, `{"admin":false}`},
		{"Admin token", "Bearer " + generateTestToken(t, 1, util.RoleAdmin), http.StatusOK, `{"admin":true}`},
		{"Garbage token", "Bearer nope", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/register", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
