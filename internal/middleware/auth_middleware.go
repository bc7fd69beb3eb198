package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/member-directory/internal/errors"
	"github.com/ikkim/member-directory/pkg/util"
)

// Context keys for the authenticated subject
const (
	UserIDKey          = "user_id"
	UserEmailKey       = "user_email"
	UserRoleKey        = "user_role"
	UserPermissionsKey = "user_permissions"
	TokenKey           = "access_token"
	TokenExpiresAtKey  = "access_token_expires_at"
)

// RevocationChecker reports whether a token was revoked by logout.
type RevocationChecker interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

type AuthMiddleware struct {
	jwtSecret string
	revoked   RevocationChecker
}

// NewAuthMiddleware builds the JWT middleware. revoked may be nil when no
// token store is configured.
func NewAuthMiddleware(jwtSecret string, revoked RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		revoked:   revoked,
	}
}

// Authenticate validates the access token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Authorization header must be 'Bearer <token>'")
				c.Abort()
				return
			}
			token = parts[1]
		} else {
			// Browsers cannot set headers on websocket upgrades.
			token = c.Query("token")
			if token == "" {
				log.Warn("Missing authorization header", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.Unauthorized(c, "Login required")
				c.Abort()
				return
			}
			log.Debug("Using token from query parameter", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err == nil && claims.Subject != "access" {
			err = util.ErrInvalidToken
		}
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if stderrors.Is(err, util.ErrExpiredToken) {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Session expired, please log in again")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authentication token")
			}
			c.Abort()
			return
		}

		if m.revoked != nil {
			revoked, err := m.revoked.IsBlacklisted(c.Request.Context(), token)
			if err != nil {
				// Token store outage must not lock everyone out.
				log.Error("Failed to check token revocation", err, map[string]interface{}{
					"path": c.Request.URL.Path,
				})
			} else if revoked {
				log.Warn("Revoked token used", map[string]interface{}{
					"user_id": claims.SubjectID,
					"role":    claims.Role,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "Session has been logged out")
				c.Abort()
				return
			}
		}

		c.Set(UserIDKey, claims.SubjectID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)
		c.Set(UserPermissionsKey, claims.Permissions)
		c.Set(TokenKey, token)
		if claims.ExpiresAt != nil {
			c.Set(TokenExpiresAtKey, claims.ExpiresAt.Time)
		}

		log.Debug("Subject authenticated successfully", map[string]interface{}{
			"user_id": claims.SubjectID,
			"email":   claims.Email,
			"role":    claims.Role,
		})

		c.Next()
	}
}

// OptionalAuthenticate lets anonymous requests through. A credential that
// is present must still be valid.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	authenticate := m.Authenticate()
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" && c.Query("token") == "" {
			c.Next()
			return
		}
		authenticate(c)
	}
}

// RequireRole checks if the subject has one of roles
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzForbidden, "Role information missing")
			c.Abort()
			return
		}

		userID, _ := GetUserID(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		log.Warn("Insufficient role", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		if len(roles) == 1 && roles[0] == util.RoleAdmin {
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzAdminOnly, "Admin access required")
		} else {
			errors.Forbidden(c, "")
		}
		c.Abort()
	}
}

// RequirePermission only lets admins holding perm through.
func (m *AuthMiddleware) RequirePermission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, _ := GetUserRole(c)
		perms, _ := GetPermissions(c)
		if role == util.RoleAdmin {
			for _, p := range perms {
				if p == perm {
					c.Next()
					return
				}
			}
		}

		userID, _ := GetUserID(c)
		log.Warn("Missing permission", map[string]interface{}{
			"user_id":    userID,
			"user_role":  role,
			"permission": perm,
			"path":       c.Request.URL.Path,
		})
		errors.RespondWithError(c, http.StatusForbidden, errors.AuthzMissingPermission, "Missing permission: "+perm)
		c.Abort()
	}
}

// GetUserID extracts the subject id from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUserEmail extracts the subject email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

// GetUserRole extracts the subject role from context
func GetUserRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	s, ok := role.(string)
	return s, ok
}

func GetPermissions(c *gin.Context) ([]string, bool) {
	perms, exists := c.Get(UserPermissionsKey)
	if !exists {
		return nil, false
	}
	p, ok := perms.([]string)
	return p, ok
}

// IsAdmin reports whether the request was made with an admin token.
func IsAdmin(c *gin.Context) bool {
	role, _ := GetUserRole(c)
	return role == util.RoleAdmin
}

// IsMember reports whether the request was made by member mid.
func IsMember(c *gin.Context, mid uint) bool {
	role, _ := GetUserRole(c)
	id, ok := GetUserID(c)
	return ok && role == util.RoleMember && id == mid
}

// GetToken returns the raw access token and when it expires.
func GetToken(c *gin.Context) (string, time.Time, bool) {
	token := c.GetString(TokenKey)
	if token == "" {
		return "", time.Time{}, false
	}
	return token, c.GetTime(TokenExpiresAtKey), true
}
