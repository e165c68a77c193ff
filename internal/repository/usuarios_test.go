package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/harentsoaR/apoio-comunitario-api/internal/common"
	"github.com/harentsoaR/apoio-comunitario-api/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

var usuarioColumns = []string{"id", "nome", "telefone", "endereco", "email", "senha", "data_cadastro", "especializacao_id", "documento_id"}

func TestUsuarioCreate_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUsuarioRepository(db)
	cadastro := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "usuarios"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data_cadastro"}).AddRow(int64(12), cadastro))

	u, err := repo.Create(context.Background(), &models.Usuario{
		Nome:             "Ana",
		Email:            "ana@x.com",
		Senha:            "digest",
		EspecializacaoID: models.EspecializacaoMae,
		DocumentoID:      5,
	})
	require.NoError(t, err)
	require.Equal(t, uint(12), u.ID)
	require.True(t, u.DataCadastro.Equal(cadastro))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsuarioCreate_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUsuarioRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "usuarios"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "usuarios_email_key"})

	_, err := repo.Create(context.Background(), &models.Usuario{Email: "ana@x.com"})
	require.ErrorIs(t, err, common.ErrConflict)
	require.Contains(t, err.Error(), "usuarios_email_key")
}

func TestUsuarioCreate_ValueTooLong(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUsuarioRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "usuarios"`)).
		WillReturnError(&pgconn.PgError{Code: "22001"})

	_, err := repo.Create(context.Background(), &models.Usuario{Email: "ana@x.com"})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestUsuarioFindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUsuarioRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "usuarios" WHERE "usuarios"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows(usuarioColumns).
			AddRow(int64(7), "Ana", "5511", "Rua A", "ana@x.com", "digest", time.Now(), int64(1), int64(3)))

	u, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, uint(7), u.ID)
	require.Equal(t, uint(1), u.EspecializacaoID)
	require.Equal(t, uint(3), u.DocumentoID)
}

func TestUsuarioFindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUsuarioRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "usuarios"`)).
		WillReturnRows(sqlmock.NewRows(usuarioColumns))

	_, err := repo.FindByID(context.Background(), 99)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUsuarioFindByEmail_ExactMatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUsuarioRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "usuarios" WHERE email = $1`)).
		WillReturnRows(sqlmock.NewRows(usuarioColumns).
			AddRow(int64(7), "Ana", "", "", "ana@x.com", "digest", time.Now(), int64(1), int64(3)))

	u, err := repo.FindByEmail(context.Background(), "ana@x.com")
	require.NoError(t, err)
	require.Equal(t, "ana@x.com", u.Email)
	require.Equal(t, "digest", u.Senha)
}

func TestUsuarioFindByEmail_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUsuarioRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "usuarios"`)).
		WillReturnError(errors.New("db down"))

	_, err := repo.FindByEmail(context.Background(), "ana@x.com")
	require.Error(t, err)
	require.NotErrorIs(t, err, common.ErrNotFound)
	require.Contains(t, err.Error(), "db down")
}

func TestUsuarioFindAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUsuarioRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "usuarios" ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows(usuarioColumns).
			AddRow(int64(1), "Ana", "", "", "ana@x.com", "d1", time.Now(), int64(1), int64(1)).
			AddRow(int64(2), "Bia", "", "", "bia@x.com", "d2", time.Now(), int64(2), int64(2)))

	list, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "bia@x.com", list[1].Email)
}

func TestUsuarioUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUsuarioRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "usuarios" SET "nome"=$1 WHERE id = $2`)).
		WithArgs("Ana Maria", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "usuarios" WHERE "usuarios"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows(usuarioColumns).
			AddRow(int64(7), "Ana Maria", "", "", "ana@x.com", "digest", time.Now(), int64(1), int64(3)))

	u, err := repo.Update(context.Background(), 7, map[string]any{"nome": "Ana Maria"})
	require.NoError(t, err)
	require.Equal(t, "Ana Maria", u.Nome)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsuarioUpdate_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUsuarioRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "usuarios"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), 7, map[string]any{"nome": "x"})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUsuarioDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUsuarioRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "usuarios" WHERE "usuarios"."id" = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsuarioDelete_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "usuarios"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.ErrorIs(t, NewUsuarioRepository(db).Delete(context.Background(), 7), common.ErrNotFound)
	})

	t.Run("referenced by follow-ups", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "usuarios"`)).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "acompanhamentos_mae_id_fkey"})

		require.ErrorIs(t, NewUsuarioRepository(db).Delete(context.Background(), 7), common.ErrConflict)
	})
}
