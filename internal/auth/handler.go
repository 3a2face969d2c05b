package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the admin login, logout, and dashboard routes.
type Handler struct {
	sessions *Sessions
	logger   *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(sessions *Sessions, logger *zap.Logger) *Handler {
	return &Handler{sessions: sessions, logger: logger}
}

type loginRequest struct {
	Password string `form:"password" json:"password"`
}

// LoginPage handles GET /admin/login.
func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Error": ""})
}

// Login handles POST /admin/login with a form or JSON password.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"Error": "Invalid request"})
		return
	}

	token, err := h.sessions.Login(c.Request.Context(), req.Password)
	if err == ErrBadPassword {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": "Wrong password"})
		return
	}
	if err != nil {
		h.logger.Error("session create failed", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Error": "Login unavailable"})
		return
	}

	c.SetCookie(CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/admin")
}

// Logout handles GET /admin/logout.
func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(CookieName); err == nil {
		_ = h.sessions.Destroy(c.Request.Context(), token)
	}
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/admin/login")
}

// Dashboard handles GET /admin; unauthenticated visitors bounce to login.
func (h *Handler) Dashboard(c *gin.Context) {
	if !IsAuthenticated(c) {
		c.Redirect(http.StatusFound, "/admin/login")
		return
	}
	c.HTML(http.StatusOK, "admin.html", nil)
}
