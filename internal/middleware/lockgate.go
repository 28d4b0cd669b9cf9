package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Wombats/internal/service"
	"github.com/rs/zerolog/log"
)

// OverdueRoute is the fixed route locked evaluators are sent to; it lists
// their outstanding evaluations.
const OverdueRoute = "/api/v1/evaluations/pending"

// allowedPrefixes are the routes an overdue evaluator may still reach:
// everything needed to complete evaluations, plus session start/end.
var allowedPrefixes = []string{
	"/api/v1/evaluations",
	"/api/v1/auth/login",
	"/api/v1/auth/logout",
	"/swagger",
}

// EmployeeID resolves the authenticated identity. Authentication itself is
// external; the session layer forwards the employee id in a header. Nothing
// client-controlled (query string, referer) is consulted, so the lock gate
// cannot be talked out of its decision by URL manipulation.
func EmployeeID(ctx *gin.Context) (uint, bool) {
	raw := ctx.GetHeader("X-Employee-ID")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// AccessLockGate blocks navigation for evaluators with overdue pending
// evaluations. The decision is recomputed on every request from the request
// path and the store alone — never from query strings or referers — so
// completing the last overdue instance lifts the lock on the very next
// request.
func AccessLockGate(lockService service.LockService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		for _, prefix := range allowedPrefixes {
			if strings.HasPrefix(path, prefix) {
				ctx.Next()
				return
			}
		}

		employeeID, ok := EmployeeID(ctx)
		if !ok {
			ctx.Next()
			return
		}

		overdue, err := lockService.HasOverdue(employeeID, time.Now())
		if err != nil {
			log.Error().Err(err).Uint("employeeID", employeeID).Msg("AccessLockGate: overdue check failed, letting request through")
			ctx.Next()
			return
		}
		if overdue {
			log.Info().Uint("employeeID", employeeID).Str("path", path).Msg("AccessLockGate: redirecting locked evaluator")
			ctx.Redirect(http.StatusFound, OverdueRoute)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
