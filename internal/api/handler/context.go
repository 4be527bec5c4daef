package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Context keys written by the Auth middleware.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// ctxIdentity extracts the caller identity injected by the Auth middleware
// and fails fast before any service call. A zero user id or an empty role
// means the middleware did not run.
func ctxIdentity(c echo.Context) (userID uint, role string, err error) {
	userID, _ = c.Get(CtxUserID).(uint)
	role, _ = c.Get(CtxRole).(string)
	if userID == 0 || role == "" {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, role, nil
}
