package handler

import (
	"net/http"
	"strconv"
	"time"

	"autoparts/internal/domain/model"
	"autoparts/internal/repository"
	"autoparts/internal/usecase"

	"github.com/labstack/echo/v4"
)

type LookupRequest struct {
	Name   string `json:"name"`
	NameEN string `json:"name_en"`
}

// /admin/categories, /admin/brands, /admin/car-models, /admin/audit-logs
type AdminCatalogHandler struct {
	categories *usecase.LookupUsecase[model.Category]
	brands     *usecase.LookupUsecase[model.Brand]
	carModels  *usecase.LookupUsecase[model.CarModel]
	audits     *usecase.AuditLogUsecase
}

func NewAdminCatalogHandler(
	categories *usecase.LookupUsecase[model.Category],
	brands *usecase.LookupUsecase[model.Brand],
	carModels *usecase.LookupUsecase[model.CarModel],
	audits *usecase.AuditLogUsecase,
) *AdminCatalogHandler {
	return &AdminCatalogHandler{categories: categories, brands: brands, carModels: carModels, audits: audits}
}

func (h *AdminCatalogHandler) RegisterRoutes(admin *echo.Group) {
	registerLookupRoutes(admin.Group("/categories"), h.categories)
	registerLookupRoutes(admin.Group("/brands"), h.brands)
	registerLookupRoutes(admin.Group("/car-models"), h.carModels)

	admin.GET("/audit-logs", h.listAuditLogs)
}

func registerLookupRoutes[T repository.Lookup](g *echo.Group, uc *usecase.LookupUsecase[T]) {
	g.GET("", listLookup[T](uc))

	g.POST("", func(c echo.Context) error {
		var req LookupRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		adminID, ok := getUserIDFromContext(c)
		if !ok {
			return unauthorized(c)
		}

		row, err := uc.Create(c.Request().Context(), adminID, usecase.LookupInput{Name: req.Name, NameEN: req.NameEN})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, row)
	})

	g.PUT("/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return badRequest(c, "invalid id")
		}
		var req LookupRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		adminID, ok := getUserIDFromContext(c)
		if !ok {
			return unauthorized(c)
		}

		row, err := uc.Update(c.Request().Context(), adminID, id, usecase.LookupInput{Name: req.Name, NameEN: req.NameEN})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, row)
	})

	g.DELETE("/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return badRequest(c, "invalid id")
		}
		adminID, ok := getUserIDFromContext(c)
		if !ok {
			return unauthorized(c)
		}

		if err := uc.Delete(c.Request().Context(), adminID, id); err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
	})
}

// GET /admin/audit-logs?page&limit&actor_user_id&action&resource_type&resource_id&from&to
// from/to は RFC3339
func (h *AdminCatalogHandler) listAuditLogs(c echo.Context) error {
	in := usecase.AuditLogListInput{
		Page:         1,
		Limit:        50,
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
	}

	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid page")
		}
		in.Page = p
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid limit")
		}
		in.Limit = l
	}

	var err error
	if in.ActorUserID, err = optionalInt64(c, "actor_user_id"); err != nil {
		return writeError(c, err)
	}
	if in.ResourceID, err = optionalInt64(c, "resource_id"); err != nil {
		return writeError(c, err)
	}
	if in.From, err = optionalTime(c, "from"); err != nil {
		return writeError(c, err)
	}
	if in.To, err = optionalTime(c, "to"); err != nil {
		return writeError(c, err)
	}

	out, err := h.audits.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func optionalTime(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, usecase.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return &t, nil
}
