package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/apoio-comunitario-api/internal/models"
	"github.com/harentsoaR/apoio-comunitario-api/internal/services"
)

// Documento accepts the document value as a JSON string or number.
type Documento string

func (d *Documento) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Documento(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("documento must be a string or number")
	}
	*d = Documento(n.String())
	return nil
}

type NovoUsuarioRequest struct {
	Nome      string    `json:"nome" binding:"required,max=255"`
	Telefone  string    `json:"telefone" binding:"max=20"`
	Endereco  string    `json:"endereco"`
	Email     string    `json:"email" binding:"required,email,max=255"`
	Senha     string    `json:"senha" binding:"required,max=72"`
	Documento Documento `json:"documento" binding:"required,max=50"`
}

func (r NovoUsuarioRequest) toService() services.NovoUsuario {
	return services.NovoUsuario{
		Nome:      r.Nome,
		Telefone:  r.Telefone,
		Endereco:  r.Endereco,
		Email:     r.Email,
		Senha:     r.Senha,
		Documento: string(r.Documento),
	}
}

type AtualizacaoUsuarioRequest struct {
	Nome     *string `json:"nome" binding:"omitempty,max=255"`
	Telefone *string `json:"telefone" binding:"omitempty,max=20"`
	Endereco *string `json:"endereco"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Senha    *string `json:"senha" binding:"omitempty,max=72"`
}

func (h *Handler) CreateMae(c *gin.Context) {
	h.createUsuario(c, h.Usuarios.ProvisionMae)
}

func (h *Handler) CreateProfissional(c *gin.Context) {
	h.createUsuario(c, h.Usuarios.ProvisionProfissional)
}

func (h *Handler) createUsuario(c *gin.Context, provision func(ctx context.Context, in services.NovoUsuario) (*models.Usuario, error)) {
	var req NovoUsuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := provision(c.Request.Context(), req.toService())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, u)
}

func (h *Handler) ListUsuarios(c *gin.Context) {
	list, err := h.Usuarios.FindAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetUsuario(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	u, err := h.Usuarios.FindByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateUsuario(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AtualizacaoUsuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	u, err := h.Usuarios.Update(c.Request.Context(), id, services.AtualizacaoUsuario{
		Nome:     req.Nome,
		Telefone: req.Telefone,
		Endereco: req.Endereco,
		Email:    req.Email,
		Senha:    req.Senha,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUsuario(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.Usuarios.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
