package repository

import (
	"context"
	"time"

	"github.com/harentsoaR/apoio-comunitario-api/internal/models"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *models.Usuario) (*models.Usuario, error)
	FindAll(ctx context.Context) ([]models.Usuario, error)
	FindByID(ctx context.Context, id uint) (*models.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*models.Usuario, error)
	Update(ctx context.Context, id uint, fields map[string]any) (*models.Usuario, error)
	Delete(ctx context.Context, id uint) error
}

type DocumentoRepository interface {
	Create(ctx context.Context, d *models.Documento) (*models.Documento, error)
	FindByID(ctx context.Context, id uint) (*models.Documento, error)
}

type AcompanhamentoRepository interface {
	Create(ctx context.Context, a *models.Acompanhamento) (*models.Acompanhamento, error)
	FindAll(ctx context.Context) ([]models.Acompanhamento, error)
	FindByID(ctx context.Context, id uint) (*models.Acompanhamento, error)
	FindByUsuario(ctx context.Context, usuarioID uint) ([]models.Acompanhamento, error)
	Close(ctx context.Context, id uint, fim time.Time) (*models.Acompanhamento, error)
}

// Manager vends repositories bound to the given handle, so the same code runs
// against the pool or inside a transaction.
type Manager interface {
	Usuarios(db *gorm.DB) UsuarioRepository
	Documentos(db *gorm.DB) DocumentoRepository
	Acompanhamentos(db *gorm.DB) AcompanhamentoRepository
}

type GormManager struct{}

func NewManager() Manager {
	return &GormManager{}
}

func (m *GormManager) Usuarios(db *gorm.DB) UsuarioRepository {
	return NewUsuarioRepository(db)
}

func (m *GormManager) Documentos(db *gorm.DB) DocumentoRepository {
	return NewDocumentoRepository(db)
}

func (m *GormManager) Acompanhamentos(db *gorm.DB) AcompanhamentoRepository {
	return NewAcompanhamentoRepository(db)
}
