package server

import (
	"net/http"

	"autoparts/internal/config"
	"autoparts/internal/handler"
	"autoparts/internal/repository"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	AdminProduct *handler.AdminProductHandler
	AdminCatalog *handler.AdminCatalogHandler
	AdminUser    *handler.AdminUserHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Auth.RegisterRoutes(e, cfg, userRepo)
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, cfg, userRepo)

	admin := handler.AdminGroup(e, cfg, userRepo)
	h.AdminProduct.RegisterRoutes(admin)
	h.AdminCatalog.RegisterRoutes(admin)
	h.AdminUser.RegisterRoutes(admin)
}
