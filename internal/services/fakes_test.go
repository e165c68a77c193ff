package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/harentsoaR/apoio-comunitario-api/internal/audit"
	"github.com/harentsoaR/apoio-comunitario-api/internal/common"
	"github.com/harentsoaR/apoio-comunitario-api/internal/models"
	"github.com/harentsoaR/apoio-comunitario-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// --- helpers ---

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

// fakeStore is an in-memory stand-in for the three repositories.
type fakeStore struct {
	mu sync.Mutex

	usuarios        map[uint]*models.Usuario
	documentos      map[uint]*models.Documento
	acompanhamentos map[uint]*models.Acompanhamento
	nextID          uint

	usuarioCreateErr   error
	documentoCreateErr error
	findErr            error
	deleteErr          error

	findByIDCalls int

	// handles records the *gorm.DB each repository was bound to.
	handles map[string][]*gorm.DB
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		usuarios:        map[uint]*models.Usuario{},
		documentos:      map[uint]*models.Documento{},
		acompanhamentos: map[uint]*models.Acompanhamento{},
		handles:         map[string][]*gorm.DB{},
	}
}

func (s *fakeStore) bound(repo string, db *gorm.DB) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handles[repo] = append(s.handles[repo], db)
}

func (s *fakeStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addUsuario(u models.Usuario) *models.Usuario {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.usuarios[u.ID] = &u
	return &u
}

type fakeManager struct{ s *fakeStore }

func (m fakeManager) Usuarios(db *gorm.DB) repository.UsuarioRepository {
	m.s.bound("usuarios", db)
	return fakeUsuarios{m.s}
}

func (m fakeManager) Documentos(db *gorm.DB) repository.DocumentoRepository {
	m.s.bound("documentos", db)
	return fakeDocumentos{m.s}
}

func (m fakeManager) Acompanhamentos(db *gorm.DB) repository.AcompanhamentoRepository {
	m.s.bound("acompanhamentos", db)
	return fakeAcompanhamentos{m.s}
}

type fakeUsuarios struct{ s *fakeStore }

func (f fakeUsuarios) Create(_ context.Context, u *models.Usuario) (*models.Usuario, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.usuarioCreateErr != nil {
		return nil, f.s.usuarioCreateErr
	}
	for _, existing := range f.s.usuarios {
		if existing.Email == u.Email {
			return nil, common.ErrConflict
		}
	}
	u.ID = f.s.id()
	u.DataCadastro = time.Now()
	cp := *u
	f.s.usuarios[u.ID] = &cp
	return u, nil
}

func (f fakeUsuarios) FindAll(context.Context) ([]models.Usuario, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.findErr != nil {
		return nil, f.s.findErr
	}
	out := []models.Usuario{}
	for id := uint(1); id <= f.s.nextID; id++ {
		if u, ok := f.s.usuarios[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f fakeUsuarios) FindByID(_ context.Context, id uint) (*models.Usuario, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.findByIDCalls++
	if f.s.findErr != nil {
		return nil, f.s.findErr
	}
	u, ok := f.s.usuarios[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsuarios) FindByEmail(_ context.Context, email string) (*models.Usuario, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.findErr != nil {
		return nil, f.s.findErr
	}
	for _, u := range f.s.usuarios {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f fakeUsuarios) Update(_ context.Context, id uint, fields map[string]any) (*models.Usuario, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.usuarios[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "nome":
			u.Nome = v.(string)
		case "telefone":
			u.Telefone = v.(string)
		case "endereco":
			u.Endereco = v.(string)
		case "email":
			u.Email = v.(string)
		case "senha":
			u.Senha = v.(string)
		}
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsuarios) Delete(_ context.Context, id uint) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.deleteErr != nil {
		return f.s.deleteErr
	}
	if _, ok := f.s.usuarios[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.s.usuarios, id)
	return nil
}

type fakeDocumentos struct{ s *fakeStore }

func (f fakeDocumentos) Create(_ context.Context, d *models.Documento) (*models.Documento, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.documentoCreateErr != nil {
		return nil, f.s.documentoCreateErr
	}
	d.ID = f.s.id()
	cp := *d
	f.s.documentos[d.ID] = &cp
	return d, nil
}

func (f fakeDocumentos) FindByID(_ context.Context, id uint) (*models.Documento, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	d, ok := f.s.documentos[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return d, nil
}

type fakeAcompanhamentos struct{ s *fakeStore }

func (f fakeAcompanhamentos) Create(_ context.Context, a *models.Acompanhamento) (*models.Acompanhamento, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	a.ID = f.s.id()
	cp := *a
	f.s.acompanhamentos[a.ID] = &cp
	return a, nil
}

func (f fakeAcompanhamentos) FindAll(context.Context) ([]models.Acompanhamento, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []models.Acompanhamento{}
	for id := uint(1); id <= f.s.nextID; id++ {
		if a, ok := f.s.acompanhamentos[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f fakeAcompanhamentos) FindByID(_ context.Context, id uint) (*models.Acompanhamento, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	a, ok := f.s.acompanhamentos[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f fakeAcompanhamentos) FindByUsuario(_ context.Context, usuarioID uint) ([]models.Acompanhamento, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []models.Acompanhamento{}
	for id := uint(1); id <= f.s.nextID; id++ {
		if a, ok := f.s.acompanhamentos[id]; ok && (a.MaeID == usuarioID || a.ProfissionalID == usuarioID) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f fakeAcompanhamentos) Close(_ context.Context, id uint, fim time.Time) (*models.Acompanhamento, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	a, ok := f.s.acompanhamentos[id]
	if !ok || !a.EmAndamento {
		return nil, common.ErrConflict
	}
	a.Fim = &fim
	a.EmAndamento = false
	cp := *a
	return &cp, nil
}

// recordingLog keeps audit events in memory.
type recordingLog struct {
	mu     sync.Mutex
	events []audit.Event
}

func (l *recordingLog) Record(_ context.Context, e audit.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *recordingLog) Recent(context.Context, int64) ([]audit.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]audit.Event(nil), l.events...), nil
}

func (l *recordingLog) actions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Acao)
	}
	return out
}
