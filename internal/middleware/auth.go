package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AliiiBenn/mini-auth/internal/models"
	"github.com/AliiiBenn/mini-auth/internal/services"
	"github.com/gin-gonic/gin"
)

// Credential transports.
const (
	HeaderProjectAPIKey = "X-Project-Api-Key"
	CookieAccessToken   = "access_token"
	CookieRefreshToken  = "refresh_token"
)

// Context keys set by Authenticate.
const (
	ContextAuthKind = "auth_kind"
	ContextUser     = "auth_user"
	ContextProject  = "auth_project"
	ContextScope    = "auth_scope"
)

// Principal classes a request can authenticate as.
const (
	AuthPlatform   = "platform"    // platform user via JWT
	AuthClient     = "client"      // project end-user via JWT
	AuthProjectKey = "project_key" // client application via API key
)

// Authenticate classifies the request's credential material, evaluated
// in a fixed order: a project API key header wins, then a bearer header
// or access-token cookie, then nothing. A credential that is present but
// invalid aborts the request; an absent credential just leaves the
// request unauthenticated for the route guards to judge.
func Authenticate(tokens *services.TokenService, users *services.UserService, keys *services.APIKeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if keyValue := c.GetHeader(HeaderProjectAPIKey); keyValue != "" {
			project, err := keys.Validate(keyValue)
			if err != nil {
				deny(c, err)
				return
			}
			c.Set(ContextAuthKind, AuthProjectKey)
			c.Set(ContextProject, project)
			c.Set(ContextScope, services.ProjectScope(project.ID))
			c.Next()
			return
		}

		tokenString, present := extractAccessToken(c)
		if !present {
			c.Next()
			return
		}

		claims, err := tokens.ValidateAccessToken(tokenString)
		if err != nil {
			deny(c, err)
			return
		}

		user, err := users.Resolve(claims.Subject, claims.Scope)
		if err != nil {
			deny(c, err)
			return
		}

		kind := AuthClient
		if claims.Scope == services.ScopePlatform {
			kind = AuthPlatform
		}
		c.Set(ContextAuthKind, kind)
		c.Set(ContextUser, user)
		c.Set(ContextScope, claims.Scope)

		c.Next()
	}
}

// extractAccessToken pulls the token from the Authorization header or,
// failing that, the access_token cookie. A malformed Authorization
// header counts as a present (and therefore rejectable) credential.
func extractAccessToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", true
		}
		return parts[1], true
	}
	if cookie, err := c.Cookie(CookieAccessToken); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

func deny(c *gin.Context, err error) {
	if errors.Is(err, services.ErrAuthorizationDenied) {
		c.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "not permitted"})
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "authentication failed"})
	}
	c.Abort()
}

func requireKind(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, exists := c.Get(ContextAuthKind)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "authentication required"})
			c.Abort()
			return
		}
		if current != kind {
			c.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "not permitted"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePlatform admits only platform users authenticated by JWT.
func RequirePlatform() gin.HandlerFunc { return requireKind(AuthPlatform) }

// RequireClient admits only project end-users authenticated by JWT.
func RequireClient() gin.HandlerFunc { return requireKind(AuthClient) }

// RequireProjectKey admits only requests carrying a valid project API key.
func RequireProjectKey() gin.HandlerFunc { return requireKind(AuthProjectKey) }

// GetUser returns the resolved principal, nil when the request is not
// JWT-authenticated.
func GetUser(c *gin.Context) *models.User {
	if v, exists := c.Get(ContextUser); exists {
		return v.(*models.User)
	}
	return nil
}

// GetProject returns the API-key-resolved project, nil otherwise.
func GetProject(c *gin.Context) *models.Project {
	if v, exists := c.Get(ContextProject); exists {
		return v.(*models.Project)
	}
	return nil
}

// GetScope returns the request's scope tag, empty when unauthenticated.
func GetScope(c *gin.Context) string {
	if v, exists := c.Get(ContextScope); exists {
		return v.(string)
	}
	return ""
}

// GetAuthKind returns the principal class, empty when unauthenticated.
func GetAuthKind(c *gin.Context) string {
	if v, exists := c.Get(ContextAuthKind); exists {
		return v.(string)
	}
	return ""
}
