package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/harentsoaR/apoio-comunitario-api/internal/audit"
	"github.com/harentsoaR/apoio-comunitario-api/internal/common"
	"github.com/harentsoaR/apoio-comunitario-api/internal/metrics"
	"github.com/harentsoaR/apoio-comunitario-api/internal/models"
	"github.com/harentsoaR/apoio-comunitario-api/internal/repository"
	"github.com/harentsoaR/apoio-comunitario-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Session is returned to clients after a successful login.
type Session struct {
	AccessToken string `json:"access_token"`
}

// AuthService checks credentials and issues session tokens.
type AuthService struct {
	db     *gorm.DB
	repos  repository.Manager
	tokens *utils.TokenIssuer
	audit  audit.Log
	logger *zap.Logger
}

func NewAuthService(db *gorm.DB, repos repository.Manager, tokens *utils.TokenIssuer, auditLog audit.Log, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		db:     db,
		repos:  repos,
		tokens: tokens,
		audit:  auditLog,
		logger: logger.Named("auth"),
	}
}

var (
	timingDigestOnce sync.Once
	timingDigest     string
)

// unknownUserDigest is compared against when no user matches the email, so
// both failure paths pay for one bcrypt comparison.
func unknownUserDigest() string {
	timingDigestOnce.Do(func() {
		timingDigest, _ = utils.HashPassword("apoio-unknown-user")
	})
	return timingDigest
}

// Validate returns the user owning email when senha matches its digest. The
// returned user never carries the digest. Unknown email and wrong password
// both yield ErrInvalidCredentials.
func (s *AuthService) Validate(ctx context.Context, email, senha string) (*models.Usuario, error) {
	u, err := s.repos.Usuarios(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			utils.CheckPasswordHash(senha, unknownUserDigest())
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find usuario by email: %w", err)
	}

	if !utils.CheckPasswordHash(senha, u.Senha) {
		return nil, common.ErrInvalidCredentials
	}

	pub := u.Public()
	return &pub, nil
}

func (s *AuthService) IssueSession(u *models.Usuario) (*Session, error) {
	token, err := s.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &Session{AccessToken: token}, nil
}

func (s *AuthService) Login(ctx context.Context, email, senha string) (*Session, error) {
	u, err := s.Validate(ctx, email, senha)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues("invalid").Inc()
			audit.Safe(ctx, s.audit, s.logger, audit.Event{Acao: audit.AcaoLoginFalha, Email: email})
			return nil, err
		}
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	session, err := s.IssueSession(u)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	audit.Safe(ctx, s.audit, s.logger, audit.Event{Acao: audit.AcaoLoginSucesso, UsuarioID: u.ID, Email: u.Email})
	s.logger.Info("login succeeded", zap.Uint("usuario_id", u.ID))
	return session, nil
}
