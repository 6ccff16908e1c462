package handler

import (
	"net/http"

	"shopapi/internal/middleware"
	"shopapi/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /users のHTTP（会員登録、OTP、ログイン、パスワード再設定、プロフィール）
type UserHandler struct {
	uc     *usecase.UserUsecase
	secret string
}

// DI
func NewUserHandler(uc *usecase.UserUsecase, jwtSecret string) *UserHandler {
	return &UserHandler{uc: uc, secret: jwtSecret}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	FullName string `json:"full_name"`
	Picture  string `json:"picture"`
}

func (h *UserHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/users")
	g.POST("/register", h.register)
	g.POST("/verify", h.verify)
	g.POST("/login", h.login)
	g.POST("/password/forgot", h.forgotPassword)
	g.POST("/password/reset", h.resetPassword)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.updateProfile)
	g.DELETE("/:id", h.delete, middleware.AdminOnly(h.secret)...)
}

func (h *UserHandler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}
	out, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusCreated, "User registered successfully", out)
}

func (h *UserHandler) verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}
	out, err := h.uc.Verify(c.Request().Context(), usecase.VerifyInput{Email: req.Email, OTP: req.OTP})
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "User verified successfully", out)
}

func (h *UserHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}
	out, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Login successful", out)
}

func (h *UserHandler) forgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}
	if err := h.uc.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "OTP sent successfully", nil)
}

func (h *UserHandler) resetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}
	if err := h.uc.ResetPassword(c.Request().Context(), usecase.ResetPasswordInput{
		Email:       req.Email,
		OTP:         req.OTP,
		NewPassword: req.NewPassword,
	}); err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Password reset successfully", nil)
}

func (h *UserHandler) get(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "User retrieved successfully", out)
}

func (h *UserHandler) updateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}
	out, err := h.uc.UpdateProfile(c.Request().Context(), c.Param("id"), usecase.UpdateProfileInput{
		FullName: req.FullName,
		Picture:  req.Picture,
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "User updated successfully", out)
}

func (h *UserHandler) delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "User deleted successfully", nil)
}
