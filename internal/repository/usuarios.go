package repository

import (
	"context"

	"github.com/harentsoaR/apoio-comunitario-api/internal/common"
	"github.com/harentsoaR/apoio-comunitario-api/internal/models"
	"gorm.io/gorm"
)

type GormUsuarioRepository struct {
	db *gorm.DB
}

func NewUsuarioRepository(db *gorm.DB) *GormUsuarioRepository {
	return &GormUsuarioRepository{db: db}
}

func (r *GormUsuarioRepository) Create(ctx context.Context, u *models.Usuario) (*models.Usuario, error) {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *GormUsuarioRepository) FindAll(ctx context.Context) ([]models.Usuario, error) {
	var usuarios []models.Usuario
	if err := r.db.WithContext(ctx).Order("id").Find(&usuarios).Error; err != nil {
		return nil, translate(err)
	}
	return usuarios, nil
}

func (r *GormUsuarioRepository) FindByID(ctx context.Context, id uint) (*models.Usuario, error) {
	var u models.Usuario
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindByEmail matches the address exactly; no case folding is applied.
func (r *GormUsuarioRepository) FindByEmail(ctx context.Context, email string) (*models.Usuario, error) {
	var u models.Usuario
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *GormUsuarioRepository) Update(ctx context.Context, id uint, fields map[string]any) (*models.Usuario, error) {
	res := r.db.WithContext(ctx).Model(&models.Usuario{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, common.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *GormUsuarioRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Usuario{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
