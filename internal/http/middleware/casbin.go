package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// CasbinAuthorization enforces fine-grained database-backed policies
// on top of the role guard. It runs after AuthGuard, which has already
// resolved the caller's role into the context.
func CasbinAuthorization(policySvc domain.PolicyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextUserRole)
		if !exists {
			abortWith(c, domain.Unauthorized("you are not authorized"))
			return
		}

		allowed, err := policySvc.CheckPermission(role.(string), c.FullPath(), c.Request.Method)
		if err != nil {
			abortWith(c, err)
			return
		}
		if !allowed {
			abortWith(c, domain.WrapAppError(http.StatusForbidden,
				"you do not have permission to access this resource", domain.ErrInsufficientRole))
			return
		}

		c.Next()
	}
}
