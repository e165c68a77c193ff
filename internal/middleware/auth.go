package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/apoio-comunitario-api/internal/common"
	"github.com/harentsoaR/apoio-comunitario-api/internal/metrics"
	"github.com/harentsoaR/apoio-comunitario-api/internal/models"
	"github.com/harentsoaR/apoio-comunitario-api/internal/utils"
)

const identityKey = "identity"

type TokenValidator interface {
	Validate(token string) (*utils.Claims, error)
}

type UsuarioFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Usuario, error)
}

// Authenticate requires a valid bearer token and stores the caller's identity
// on the gin context and the request context. It never touches the store.
func Authenticate(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthenticated(c, "missing_token")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			unauthenticated(c, "malformed_header")
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(parts[1]))
		if err != nil || claims.UserID == 0 {
			unauthenticated(c, "invalid_token")
			return
		}

		id := common.Identity{UserID: claims.UserID, Email: claims.Email}
		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(common.WithIdentity(c.Request.Context(), id))

		c.Next()
	}
}

// RequireSpecialization admits only callers whose stored specialization
// equals required. The user is looked up on every request.
func RequireSpecialization(finder UsuarioFinder, required uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			unauthenticated(c, "missing_identity")
			return
		}
		if !hasSpecialization(c, finder, id.UserID, required) {
			return
		}
		c.Next()
	}
}

// RequireSelfOrSpecialization admits callers acting on their own record,
// named by the route parameter param, and otherwise falls back to the
// specialization check.
func RequireSelfOrSpecialization(finder UsuarioFinder, required uint, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			unauthenticated(c, "missing_identity")
			return
		}
		if target, err := strconv.ParseUint(c.Param(param), 10, 64); err == nil && uint(target) == id.UserID {
			c.Next()
			return
		}
		if !hasSpecialization(c, finder, id.UserID, required) {
			return
		}
		c.Next()
	}
}

// hasSpecialization aborts the request and returns false unless the stored
// user has the required specialization.
func hasSpecialization(c *gin.Context, finder UsuarioFinder, userID, required uint) bool {
	u, err := finder.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			forbidden(c, "unknown_user")
			return false
		}
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return false
	}
	if u.EspecializacaoID != required {
		forbidden(c, "specialization")
		return false
	}
	return true
}

// CurrentIdentity returns the identity set by Authenticate.
func CurrentIdentity(c *gin.Context) (common.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return common.Identity{}, false
	}
	id, ok := value.(common.Identity)
	return id, ok
}

func unauthenticated(c *gin.Context, reason string) {
	metrics.GateRejections.WithLabelValues(reason).Inc()
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
}

func forbidden(c *gin.Context, reason string) {
	metrics.GateRejections.WithLabelValues(reason).Inc()
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
}
