package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/apoio-comunitario-api/internal/services"
)

type NovoAcompanhamentoRequest struct {
	MaeID          uint       `json:"mae_id" binding:"required"`
	ProfissionalID uint       `json:"profissional_id" binding:"required"`
	Inicio         *time.Time `json:"inicio"`
}

type EncerrarAcompanhamentoRequest struct {
	Fim *time.Time `json:"fim"`
}

func (h *Handler) ListAcompanhamentos(c *gin.Context) {
	list, err := h.Acompanhamentos.FindAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetAcompanhamento(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	a, err := h.Acompanhamentos.FindByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAcompanhamentosDoUsuario(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	list, err := h.Acompanhamentos.FindByUsuario(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateAcompanhamento starts a follow-up. Inicio must be RFC3339 when given.
func (h *Handler) CreateAcompanhamento(c *gin.Context) {
	var req NovoAcompanhamentoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	a, err := h.Acompanhamentos.Open(c.Request.Context(), services.NovoAcompanhamento{
		MaeID:          req.MaeID,
		ProfissionalID: req.ProfissionalID,
		Inicio:         req.Inicio,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// CloseAcompanhamento ends a follow-up. The body is optional.
func (h *Handler) CloseAcompanhamento(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req EncerrarAcompanhamentoRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	a, err := h.Acompanhamentos.Close(c.Request.Context(), id, req.Fim)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
