package middleware

import (
	"net/http"

	"shopapi/internal/domain/model"

	"github.com/labstack/echo/v4"
)

//contextに入っているroleがADMINかどうかを確認します。

func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxUserRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return unauthorized(c)
			}

			//USERは拒否、ADMINだけ許可
			if model.Role(role) != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			return next(c)
		}
	}
}

// secret が空なら素通し、あれば AuthJWT + AdminRoleGuard
func AdminOnly(secret string) []echo.MiddlewareFunc {
	if secret == "" {
		return nil
	}
	return []echo.MiddlewareFunc{AuthJWT(secret), AdminRoleGuard()}
}
