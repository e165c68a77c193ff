// Package audit records security-relevant actions such as logins, user
// provisioning and follow-up changes.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	AcaoLoginSucesso            = "login.sucesso"
	AcaoLoginFalha              = "login.falha"
	AcaoUsuarioProvisionado     = "usuario.provisionado"
	AcaoUsuarioAtualizado       = "usuario.atualizado"
	AcaoUsuarioRemovido         = "usuario.removido"
	AcaoAcompanhamentoIniciado  = "acompanhamento.iniciado"
	AcaoAcompanhamentoEncerrado = "acompanhamento.encerrado"
)

type Event struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Acao      string    `bson:"acao" json:"acao"`
	UsuarioID uint      `bson:"usuarioId,omitempty" json:"usuarioId,omitempty"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Detalhe   string    `bson:"detalhe,omitempty" json:"detalhe,omitempty"`
	CriadoEm  time.Time `bson:"criadoEm" json:"criadoEm"`
}

type Log interface {
	Record(ctx context.Context, e Event) error
	Recent(ctx context.Context, limit int64) ([]Event, error)
}

// LoggerLog writes events to the application log only.
type LoggerLog struct {
	logger *zap.Logger
}

func NewLoggerLog(logger *zap.Logger) *LoggerLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggerLog{logger: logger.Named("audit")}
}

func (l *LoggerLog) Record(_ context.Context, e Event) error {
	if e.CriadoEm.IsZero() {
		e.CriadoEm = time.Now().UTC()
	}
	l.logger.Info("audit event",
		zap.String("acao", e.Acao),
		zap.Uint("usuario_id", e.UsuarioID),
		zap.String("email", e.Email),
		zap.String("detalhe", e.Detalhe),
		zap.Time("criado_em", e.CriadoEm),
	)
	return nil
}

// Recent always returns an empty list; events are not retained.
func (l *LoggerLog) Recent(context.Context, int64) ([]Event, error) {
	return []Event{}, nil
}

// Safe wraps a Log so that failures are logged and never propagated.
func Safe(ctx context.Context, log Log, logger *zap.Logger, e Event) {
	if log == nil {
		return
	}
	if err := log.Record(ctx, e); err != nil && logger != nil {
		logger.Warn("failed to record audit event", zap.String("acao", e.Acao), zap.Error(err))
	}
}
