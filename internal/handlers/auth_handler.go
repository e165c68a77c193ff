package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/apoio-comunitario-api/internal/middleware"
)

// LoginRequest accepts the password as either "password" or "senha".
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
	Senha    string `json:"senha"`
}

func (r LoginRequest) secret() string {
	if r.Password != "" {
		return r.Password
	}
	return r.Senha
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.secret() == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	session, err := h.Auth.Login(c.Request.Context(), req.Email, req.secret())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// GetCurrentUser returns the profile of the authenticated caller.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	u, err := h.Usuarios.FindByID(c.Request.Context(), id.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}
