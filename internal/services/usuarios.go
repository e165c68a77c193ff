package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/harentsoaR/apoio-comunitario-api/internal/audit"
	"github.com/harentsoaR/apoio-comunitario-api/internal/common"
	"github.com/harentsoaR/apoio-comunitario-api/internal/metrics"
	"github.com/harentsoaR/apoio-comunitario-api/internal/models"
	"github.com/harentsoaR/apoio-comunitario-api/internal/repository"
	"github.com/harentsoaR/apoio-comunitario-api/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Column sizes from the usuarios and documentos tables. Senha is limited by
// bcrypt, which only accepts up to 72 bytes.
const (
	maxNomeLen      = 255
	maxTelefoneLen  = 20
	maxEmailLen     = 255
	maxDocumentoLen = 50
	maxSenhaBytes   = 72
)

// NovoUsuario carries the fields needed to provision a user. Documento is the
// raw document value (CPF for mothers, CRP for professionals).
type NovoUsuario struct {
	Nome      string
	Telefone  string
	Endereco  string
	Email     string
	Senha     string
	Documento string
}

func (n NovoUsuario) validate() error {
	missing := []string{}
	if strings.TrimSpace(n.Nome) == "" {
		missing = append(missing, "nome")
	}
	if strings.TrimSpace(n.Email) == "" {
		missing = append(missing, "email")
	}
	if n.Senha == "" {
		missing = append(missing, "senha")
	}
	if strings.TrimSpace(n.Documento) == "" {
		missing = append(missing, "documento")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", common.ErrValidation, strings.Join(missing, ", "))
	}
	if err := checkLen("nome", n.Nome, maxNomeLen); err != nil {
		return err
	}
	if err := checkLen("telefone", n.Telefone, maxTelefoneLen); err != nil {
		return err
	}
	if err := checkLen("email", n.Email, maxEmailLen); err != nil {
		return err
	}
	return checkLen("documento", strings.TrimSpace(n.Documento), maxDocumentoLen)
}

func checkLen(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%w: %s exceeds %d characters", common.ErrValidation, field, max)
	}
	return nil
}

func hashSenha(senha string) (string, error) {
	digest, err := utils.HashPassword(senha)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: senha exceeds %d bytes", common.ErrValidation, maxSenhaBytes)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return digest, nil
}

// AtualizacaoUsuario lists the fields a user update may change. Nil fields
// are left untouched.
type AtualizacaoUsuario struct {
	Nome     *string
	Telefone *string
	Endereco *string
	Email    *string
	Senha    *string
}

type UsuarioService struct {
	db     *gorm.DB
	repos  repository.Manager
	audit  audit.Log
	logger *zap.Logger
}

func NewUsuarioService(db *gorm.DB, repos repository.Manager, auditLog audit.Log, logger *zap.Logger) *UsuarioService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsuarioService{
		db:     db,
		repos:  repos,
		audit:  auditLog,
		logger: logger.Named("usuarios"),
	}
}

// Provision creates the user's document and then the user referencing it,
// both in one transaction. Nothing is persisted when either step fails.
func (s *UsuarioService) Provision(ctx context.Context, in NovoUsuario, especializacaoID, tipoDocumentoID uint) (*models.Usuario, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	digest, err := hashSenha(in.Senha)
	if err != nil {
		return nil, err
	}

	var created *models.Usuario
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, err := s.repos.Documentos(tx).Create(ctx, &models.Documento{
			TipoDocumentoID: tipoDocumentoID,
			ValorDocumento:  strings.TrimSpace(in.Documento),
		})
		if err != nil {
			return fmt.Errorf("create documento: %w", err)
		}

		created, err = s.repos.Usuarios(tx).Create(ctx, &models.Usuario{
			Nome:             in.Nome,
			Telefone:         in.Telefone,
			Endereco:         in.Endereco,
			Email:            in.Email,
			Senha:            digest,
			EspecializacaoID: especializacaoID,
			DocumentoID:      doc.ID,
		})
		if err != nil {
			return fmt.Errorf("create usuario: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.UsuariosProvisioned.WithLabelValues(strconv.FormatUint(uint64(especializacaoID), 10)).Inc()
	audit.Safe(ctx, s.audit, s.logger, audit.Event{
		Acao:      audit.AcaoUsuarioProvisionado,
		UsuarioID: created.ID,
		Email:     created.Email,
		Detalhe:   fmt.Sprintf("especializacao=%d", especializacaoID),
	})
	s.logger.Info("usuario provisioned", zap.Uint("usuario_id", created.ID), zap.Uint("especializacao_id", especializacaoID))

	pub := created.Public()
	return &pub, nil
}

func (s *UsuarioService) ProvisionMae(ctx context.Context, in NovoUsuario) (*models.Usuario, error) {
	return s.Provision(ctx, in, models.EspecializacaoMae, models.TipoDocumentoMae)
}

func (s *UsuarioService) ProvisionProfissional(ctx context.Context, in NovoUsuario) (*models.Usuario, error) {
	return s.Provision(ctx, in, models.EspecializacaoProfissional, models.TipoDocumentoProfissional)
}

func (s *UsuarioService) FindAll(ctx context.Context) ([]models.Usuario, error) {
	list, err := s.repos.Usuarios(s.db).FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}
	for i := range list {
		list[i] = list[i].Public()
	}
	return list, nil
}

// FindByID also serves the authorization gate's role lookup.
func (s *UsuarioService) FindByID(ctx context.Context, id uint) (*models.Usuario, error) {
	u, err := s.repos.Usuarios(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find usuario %d: %w", id, err)
	}
	pub := u.Public()
	return &pub, nil
}

func (s *UsuarioService) Update(ctx context.Context, id uint, in AtualizacaoUsuario) (*models.Usuario, error) {
	fields := map[string]any{}
	if in.Nome != nil {
		if strings.TrimSpace(*in.Nome) == "" {
			return nil, fmt.Errorf("%w: nome must not be empty", common.ErrValidation)
		}
		if err := checkLen("nome", *in.Nome, maxNomeLen); err != nil {
			return nil, err
		}
		fields["nome"] = *in.Nome
	}
	if in.Telefone != nil {
		if err := checkLen("telefone", *in.Telefone, maxTelefoneLen); err != nil {
			return nil, err
		}
		fields["telefone"] = *in.Telefone
	}
	if in.Endereco != nil {
		fields["endereco"] = *in.Endereco
	}
	if in.Email != nil {
		if strings.TrimSpace(*in.Email) == "" {
			return nil, fmt.Errorf("%w: email must not be empty", common.ErrValidation)
		}
		if err := checkLen("email", *in.Email, maxEmailLen); err != nil {
			return nil, err
		}
		fields["email"] = *in.Email
	}
	if in.Senha != nil {
		if *in.Senha == "" {
			return nil, fmt.Errorf("%w: senha must not be empty", common.ErrValidation)
		}
		digest, err := hashSenha(*in.Senha)
		if err != nil {
			return nil, err
		}
		fields["senha"] = digest
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no update fields provided", common.ErrValidation)
	}

	u, err := s.repos.Usuarios(s.db).Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update usuario %d: %w", id, err)
	}

	audit.Safe(ctx, s.audit, s.logger, audit.Event{
		Acao:      audit.AcaoUsuarioAtualizado,
		UsuarioID: id,
		Email:     actorEmail(ctx),
		Detalhe:   strings.Join(sortedKeys(fields), ","),
	})

	pub := u.Public()
	return &pub, nil
}

func (s *UsuarioService) Delete(ctx context.Context, id uint) error {
	if err := s.repos.Usuarios(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("delete usuario %d: %w", id, err)
	}
	audit.Safe(ctx, s.audit, s.logger, audit.Event{
		Acao:      audit.AcaoUsuarioRemovido,
		UsuarioID: id,
		Email:     actorEmail(ctx),
	})
	return nil
}
