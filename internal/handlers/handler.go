package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/apoio-comunitario-api/internal/audit"
	"github.com/harentsoaR/apoio-comunitario-api/internal/models"
	"github.com/harentsoaR/apoio-comunitario-api/internal/services"
	"go.uber.org/zap"
)

type Authenticator interface {
	Login(ctx context.Context, email, senha string) (*services.Session, error)
}

type UsuarioService interface {
	ProvisionMae(ctx context.Context, in services.NovoUsuario) (*models.Usuario, error)
	ProvisionProfissional(ctx context.Context, in services.NovoUsuario) (*models.Usuario, error)
	FindAll(ctx context.Context) ([]models.Usuario, error)
	FindByID(ctx context.Context, id uint) (*models.Usuario, error)
	Update(ctx context.Context, id uint, in services.AtualizacaoUsuario) (*models.Usuario, error)
	Delete(ctx context.Context, id uint) error
}

type AcompanhamentoService interface {
	FindAll(ctx context.Context) ([]models.Acompanhamento, error)
	FindByID(ctx context.Context, id uint) (*models.Acompanhamento, error)
	FindByUsuario(ctx context.Context, usuarioID uint) ([]models.Acompanhamento, error)
	Open(ctx context.Context, in services.NovoAcompanhamento) (*models.Acompanhamento, error)
	Close(ctx context.Context, id uint, fim *time.Time) (*models.Acompanhamento, error)
}

// Handler groups the HTTP handlers and the services they call.
type Handler struct {
	Auth            Authenticator
	Usuarios        UsuarioService
	Acompanhamentos AcompanhamentoService
	Audit           audit.Log
	Logger          *zap.Logger
}

func NewHandler(
	auth *services.AuthService,
	usuarios *services.UsuarioService,
	acompanhamentos *services.AcompanhamentoService,
	auditLog audit.Log,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Auth:            auth,
		Usuarios:        usuarios,
		Acompanhamentos: acompanhamentos,
		Audit:           auditLog,
		Logger:          logger.Named("handlers"),
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
