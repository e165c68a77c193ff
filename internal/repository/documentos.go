package repository

import (
	"context"

	"github.com/harentsoaR/apoio-comunitario-api/internal/models"
	"gorm.io/gorm"
)

type GormDocumentoRepository struct {
	db *gorm.DB
}

func NewDocumentoRepository(db *gorm.DB) *GormDocumentoRepository {
	return &GormDocumentoRepository{db: db}
}

func (r *GormDocumentoRepository) Create(ctx context.Context, d *models.Documento) (*models.Documento, error) {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, translate(err)
	}
	return d, nil
}

func (r *GormDocumentoRepository) FindByID(ctx context.Context, id uint) (*models.Documento, error) {
	var d models.Documento
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}
