package api

import (
	"net/http"

	"github.com/akarsenev/parkslot/internal/service/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service auth.AuthUseCase
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewAuthHandler(service auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/login", h.login)
	router.POST("/logout", h.logout)
	router.GET("/session", h.session)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) logout(c *gin.Context) {
	h.service.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) session(c *gin.Context) {
	session := h.service.Session(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"username":      session.Username,
		"authenticated": session.Authenticated,
	})
}
