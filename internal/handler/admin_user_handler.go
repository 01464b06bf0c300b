package handler

import (
	"net/http"
	"strconv"

	"autoparts/internal/config"
	"autoparts/internal/middleware"
	"autoparts/internal/repository"
	auth "autoparts/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /admin 配下は全部「JWT必須 + token_version一致 + ADMIN限定」
func AdminGroup(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) *echo.Group {
	return e.Group(
		"/admin",
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
		middleware.AdminRoleGuard(),
	)
}

type AdminUserHandler struct {
	uc *auth.ForceLogoutUsecase
}

func NewAdminUserHandler(uc *auth.ForceLogoutUsecase) *AdminUserHandler {
	return &AdminUserHandler{uc: uc}
}

func (h *AdminUserHandler) RegisterRoutes(admin *echo.Group) {
	admin.POST("/users/:id/force-logout", h.ForceLogout)
}

func (h *AdminUserHandler) ForceLogout(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		return badRequest(c, "invalid user_id")
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	res, err := h.uc.Execute(c.Request().Context(), adminID, userID)
	if err != nil {
		return writeError(c, authError(err))
	}

	return c.JSON(http.StatusOK, res)
}
