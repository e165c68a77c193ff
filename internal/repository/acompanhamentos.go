package repository

import (
	"context"
	"time"

	"github.com/harentsoaR/apoio-comunitario-api/internal/common"
	"github.com/harentsoaR/apoio-comunitario-api/internal/models"
	"gorm.io/gorm"
)

type GormAcompanhamentoRepository struct {
	db *gorm.DB
}

func NewAcompanhamentoRepository(db *gorm.DB) *GormAcompanhamentoRepository {
	return &GormAcompanhamentoRepository{db: db}
}

func (r *GormAcompanhamentoRepository) Create(ctx context.Context, a *models.Acompanhamento) (*models.Acompanhamento, error) {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, translate(err)
	}
	return a, nil
}

func (r *GormAcompanhamentoRepository) FindAll(ctx context.Context) ([]models.Acompanhamento, error) {
	var list []models.Acompanhamento
	if err := r.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

func (r *GormAcompanhamentoRepository) FindByID(ctx context.Context, id uint) (*models.Acompanhamento, error) {
	var a models.Acompanhamento
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// FindByUsuario returns the follow-ups where the user is either the mother or
// the professional.
func (r *GormAcompanhamentoRepository) FindByUsuario(ctx context.Context, usuarioID uint) ([]models.Acompanhamento, error) {
	var list []models.Acompanhamento
	err := r.db.WithContext(ctx).
		Where("mae_id = ? OR profissional_id = ?", usuarioID, usuarioID).
		Order("id").
		Find(&list).Error
	if err != nil {
		return nil, translate(err)
	}
	return list, nil
}

// Close ends a follow-up that is still in progress. A follow-up that is
// already closed (or missing) yields ErrConflict.
func (r *GormAcompanhamentoRepository) Close(ctx context.Context, id uint, fim time.Time) (*models.Acompanhamento, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Acompanhamento{}).
		Where("id = ? AND em_andamento = ?", id, true).
		Updates(map[string]any{"fim": fim, "em_andamento": false})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, common.ErrConflict
	}
	return r.FindByID(ctx, id)
}
