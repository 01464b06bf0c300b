package handler

import (
	"errors"
	"net/http"

	"autoparts/internal/config"
	"autoparts/internal/middleware"
	"autoparts/internal/repository"
	"autoparts/internal/usecase"
	auth "autoparts/internal/usecase/auth_usecase"
	"autoparts/internal/validator"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
	logoutUC   *auth.LogoutUsecase
	profileUC  *auth.ProfileUsecase
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	logoutUC *auth.LogoutUsecase,
	profileUC *auth.ProfileUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		logoutUC:   logoutUC,
		profileUC:  profileUC,
	}
}

// /auth/register のリクエストボディ。
type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FullName        string `json:"full_name"`
}

// /auth/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)

	// ルート単位で付ける（プレフィックス無しの Group は全パスに掛かる）
	authed := []echo.MiddlewareFunc{middleware.AuthJWT(cfg), middleware.TokenVersionGuard(userRepo)}
	e.POST("/auth/logout", h.Logout, authed...)
	e.GET("/me", h.Me, authed...)
	e.PUT("/me", h.UpdateMe, authed...)
}

// POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FullName:        req.FullName,
	})
	if err != nil {
		return writeError(c, authError(err))
	}

	return c.JSON(http.StatusCreated, out)
}

// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, authError(err))
	}

	//JSONレスポンス（user + token）
	return c.JSON(http.StatusOK, out)
}

// POST /auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.logoutUC.Execute(c.Request().Context(), userID); err != nil {
		return writeError(c, authError(err))
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "logged out"})
}

// GET /me
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	p, err := h.profileUC.Get(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, authError(err))
	}
	return c.JSON(http.StatusOK, p)
}

// PUT /me
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	p, err := h.profileUC.Update(c.Request().Context(), userID, auth.UpdateProfileInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		return writeError(c, authError(err))
	}
	return c.JSON(http.StatusOK, p)
}

// auth のエラーを HTTPError へ
func authError(err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidEmailFormat):
		return usecase.NewHTTPErrorWithDisplay(http.StatusBadRequest, "invalid email", usecase.MsgInvalidEmail)
	case errors.Is(err, auth.ErrPasswordTooShort):
		return usecase.NewHTTPErrorWithDisplay(http.StatusBadRequest, "password too short", usecase.MsgPasswordTooShort)
	case errors.Is(err, auth.ErrPasswordMismatch):
		return usecase.NewHTTPErrorWithDisplay(http.StatusBadRequest, "password mismatch", usecase.MsgPasswordMismatch)
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return usecase.NewHTTPErrorWithDisplay(http.StatusConflict, "email already exists", usecase.MsgEmailExists)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return usecase.NewHTTPErrorWithDisplay(http.StatusUnauthorized, "invalid credentials", usecase.MsgInvalidCredentials)
	case errors.Is(err, auth.ErrUserInactive):
		return usecase.NewHTTPErrorWithDisplay(http.StatusForbidden, "user inactive", usecase.MsgUserInactive)
	case errors.Is(err, auth.ErrInvalidProfile):
		return usecase.NewHTTPErrorWithDisplay(http.StatusBadRequest, "invalid profile", usecase.MsgInvalidProfile)
	case errors.Is(err, auth.ErrCannotForceLogoutSelf):
		return usecase.NewHTTPError(http.StatusBadRequest, "cannot force logout yourself")
	case errors.Is(err, validator.ErrInvalidInput):
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid input")
	case errors.Is(err, repository.ErrNotFound):
		return usecase.NewHTTPError(http.StatusNotFound, "not found")
	default:
		return err
	}
}
