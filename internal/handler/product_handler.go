package handler

import (
	"net/http"
	"strconv"

	"autoparts/internal/domain/model"
	"autoparts/internal/repository"
	"autoparts/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// error は機械向けコード、message は画面にそのまま出す文言
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Message: he.Display})
	}

	//500
	zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("unhandled error")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Message: usecase.MsgInternal})
}

func badRequest(c echo.Context, code string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: code, Message: usecase.MsgInvalidInput})
}

// /products の公開API
type ProductHandler struct {
	uc         *usecase.ProductUsecase
	categories *usecase.LookupUsecase[model.Category]
	brands     *usecase.LookupUsecase[model.Brand]
	carModels  *usecase.LookupUsecase[model.CarModel]
}

// DI
func NewProductHandler(
	uc *usecase.ProductUsecase,
	categories *usecase.LookupUsecase[model.Category],
	brands *usecase.LookupUsecase[model.Brand],
	carModels *usecase.LookupUsecase[model.CarModel],
) *ProductHandler {
	return &ProductHandler{uc: uc, categories: categories, brands: brands, carModels: carModels}
}

// 公開商品と絞り込み用マスタのルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)

	e.GET("/categories", listLookup(h.categories))
	e.GET("/brands", listLookup(h.brands))
	e.GET("/car-models", listLookup(h.carModels))
}

func (h *ProductHandler) list(c echo.Context) error {
	in, err := parseListQuery(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ListPublicProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid id")
	}

	p, err := h.uc.GetProductDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func listLookup[T repository.Lookup](uc *usecase.LookupUsecase[T]) echo.HandlerFunc {
	return func(c echo.Context) error {
		rows, err := uc.List(c.Request().Context())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, map[string][]T{"items": rows})
	}
}

// page, limit, q, category_id, brand_id, min_price, max_price, sort
func parseListQuery(c echo.Context) (usecase.ListProductsInput, error) {
	in := usecase.ListProductsInput{
		Page:  1,
		Limit: 20,
		Q:     c.QueryParam("q"),
		Sort:  c.QueryParam("sort"),
	}

	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return in, usecase.NewHTTPError(http.StatusBadRequest, "invalid page")
		}
		in.Page = p
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return in, usecase.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		in.Limit = l
	}

	var err error
	if in.CategoryID, err = optionalInt64(c, "category_id"); err != nil {
		return in, err
	}
	if in.BrandID, err = optionalInt64(c, "brand_id"); err != nil {
		return in, err
	}
	if in.MinPrice, err = optionalInt64(c, "min_price"); err != nil {
		return in, err
	}
	if in.MaxPrice, err = optionalInt64(c, "max_price"); err != nil {
		return in, err
	}
	return in, nil
}

func optionalInt64(c echo.Context, name string) (*int64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	x, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, usecase.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return &x, nil
}
