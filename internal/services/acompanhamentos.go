package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harentsoaR/apoio-comunitario-api/internal/audit"
	"github.com/harentsoaR/apoio-comunitario-api/internal/common"
	"github.com/harentsoaR/apoio-comunitario-api/internal/models"
	"github.com/harentsoaR/apoio-comunitario-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type NovoAcompanhamento struct {
	MaeID          uint
	ProfissionalID uint
	Inicio         *time.Time
}

// SMSNotifier is implemented by NotificationService.
type SMSNotifier interface {
	SendAcompanhamentoIniciadoSMS(mae, profissional *models.Usuario, a *models.Acompanhamento)
}

type AcompanhamentoService struct {
	db       *gorm.DB
	repos    repository.Manager
	notifier SMSNotifier
	audit    audit.Log
	logger   *zap.Logger
	now      func() time.Time
}

func NewAcompanhamentoService(db *gorm.DB, repos repository.Manager, notifier SMSNotifier, auditLog audit.Log, logger *zap.Logger) *AcompanhamentoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AcompanhamentoService{
		db:       db,
		repos:    repos,
		notifier: notifier,
		audit:    auditLog,
		logger:   logger.Named("acompanhamentos"),
		now:      time.Now,
	}
}

func (s *AcompanhamentoService) FindAll(ctx context.Context) ([]models.Acompanhamento, error) {
	list, err := s.repos.Acompanhamentos(s.db).FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list acompanhamentos: %w", err)
	}
	return list, nil
}

func (s *AcompanhamentoService) FindByID(ctx context.Context, id uint) (*models.Acompanhamento, error) {
	a, err := s.repos.Acompanhamentos(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find acompanhamento %d: %w", id, err)
	}
	return a, nil
}

// FindByUsuario lists the follow-ups the user takes part in. The user must exist.
func (s *AcompanhamentoService) FindByUsuario(ctx context.Context, usuarioID uint) ([]models.Acompanhamento, error) {
	if _, err := s.repos.Usuarios(s.db).FindByID(ctx, usuarioID); err != nil {
		return nil, fmt.Errorf("find usuario %d: %w", usuarioID, err)
	}
	list, err := s.repos.Acompanhamentos(s.db).FindByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("list acompanhamentos of usuario %d: %w", usuarioID, err)
	}
	return list, nil
}

// Open starts a follow-up between a mother and a professional.
func (s *AcompanhamentoService) Open(ctx context.Context, in NovoAcompanhamento) (*models.Acompanhamento, error) {
	if in.MaeID == 0 || in.ProfissionalID == 0 {
		return nil, fmt.Errorf("%w: mae_id and profissional_id are required", common.ErrValidation)
	}

	mae, err := s.participant(ctx, in.MaeID, models.EspecializacaoMae, "mae")
	if err != nil {
		return nil, err
	}
	profissional, err := s.participant(ctx, in.ProfissionalID, models.EspecializacaoProfissional, "profissional")
	if err != nil {
		return nil, err
	}

	inicio := s.now().UTC()
	if in.Inicio != nil {
		inicio = in.Inicio.UTC()
	}

	a, err := s.repos.Acompanhamentos(s.db).Create(ctx, &models.Acompanhamento{
		MaeID:          mae.ID,
		ProfissionalID: profissional.ID,
		Inicio:         inicio,
		EmAndamento:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("create acompanhamento: %w", err)
	}

	if s.notifier != nil {
		s.notifier.SendAcompanhamentoIniciadoSMS(mae, profissional, a)
	}
	audit.Safe(ctx, s.audit, s.logger, audit.Event{
		Acao:      audit.AcaoAcompanhamentoIniciado,
		UsuarioID: mae.ID,
		Email:     actorEmail(ctx),
		Detalhe:   fmt.Sprintf("acompanhamento=%d profissional=%d", a.ID, profissional.ID),
	})
	return a, nil
}

func (s *AcompanhamentoService) participant(ctx context.Context, id, especializacaoID uint, papel string) (*models.Usuario, error) {
	u, err := s.repos.Usuarios(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %d does not exist", common.ErrValidation, papel, id)
		}
		return nil, fmt.Errorf("find %s: %w", papel, err)
	}
	if u.EspecializacaoID != especializacaoID {
		return nil, fmt.Errorf("%w: usuario %d is not a %s", common.ErrValidation, id, papel)
	}
	return u, nil
}

// Close ends an in-progress follow-up. fim defaults to now.
func (s *AcompanhamentoService) Close(ctx context.Context, id uint, fim *time.Time) (*models.Acompanhamento, error) {
	repo := s.repos.Acompanhamentos(s.db)

	a, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find acompanhamento %d: %w", id, err)
	}
	if !a.EmAndamento {
		return nil, fmt.Errorf("%w: acompanhamento %d already closed", common.ErrConflict, id)
	}

	end := s.now().UTC()
	if fim != nil {
		end = fim.UTC()
	}
	if end.Before(a.Inicio) {
		return nil, fmt.Errorf("%w: fim precedes inicio", common.ErrValidation)
	}

	closed, err := repo.Close(ctx, id, end)
	if err != nil {
		return nil, fmt.Errorf("close acompanhamento %d: %w", id, err)
	}

	audit.Safe(ctx, s.audit, s.logger, audit.Event{
		Acao:      audit.AcaoAcompanhamentoEncerrado,
		UsuarioID: closed.MaeID,
		Email:     actorEmail(ctx),
		Detalhe:   fmt.Sprintf("acompanhamento=%d", closed.ID),
	})
	return closed, nil
}
