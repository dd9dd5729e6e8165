package handler

import (
	"net/http"

	"stockroom/internal/dto"
	"stockroom/internal/middleware"
	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc    service.AuthService
	cookie middleware.SessionCookie
}

func NewAuthHandler(svc service.AuthService, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie}
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	if middleware.GetClaims(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{
		"Title":     "Login",
		"Failed":    c.Query("error") != "",
		"Locked":    c.Query("error") == "locked",
		"LoggedOut": c.Query("logout") != "",
		"Error":     "",
	})
}

// Login handles the sign-in form.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if msg := bindForm(c, &req); msg != "" {
		c.Redirect(http.StatusSeeOther, "/login?error=true")
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			messageFor(c, err)
		}
		c.Redirect(http.StatusSeeOther, "/login?error=true")
		return
	}
	h.cookie.Set(c, resp.Token, resp.ExpiresIn)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookie.Clear(c)
	c.Redirect(http.StatusSeeOther, "/login?logout=true")
}

// APILogin godoc
// @Summary Sign in and obtain a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /api/auth/login [post]
func (h *AuthHandler) APILogin(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) currentUser(c *gin.Context) (*dto.UserResponse, error) {
	id, ok := currentUserID(c)
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return h.svc.GetUser(c.Request.Context(), id)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "profile.html", gin.H{"Title": "My Profile", "Profile": user})
}

func (h *AuthHandler) Settings(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "settings.html", gin.H{"Title": "Settings", "Profile": user})
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req dto.UpdatePasswordRequest
	if msg := bindForm(c, &req); msg != "" {
		redirectError(c, "/profile", msg)
		return
	}
	id, ok := currentUserID(c)
	if !ok {
		redirectError(c, "/profile", service.ErrUserNotFound.Error())
		return
	}
	if err := h.svc.UpdatePassword(c.Request.Context(), id, req); err != nil {
		redirectError(c, "/profile", messageFor(c, err))
		return
	}
	redirectSuccess(c, "/profile", "Password updated successfully!")
}

// ── Users ────────────────────────────────────────────────────────────────────

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} dto.UserResponse
// @Router /api/users [get]
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param body body dto.CreateUserRequest true "User"
// @Success 201 {object} dto.UserResponse
// @Failure 409 {object} apierror.APIError
// @Router /api/users [post]
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	user, err := h.svc.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}
