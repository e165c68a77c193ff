package models

import "time"

// Especializacao ids seeded by the migrations.
const (
	EspecializacaoMae          uint = 1
	EspecializacaoProfissional uint = 2
)

type Usuario struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Nome             string    `gorm:"column:nome;size:255;not null" json:"nome"`
	Telefone         string    `gorm:"column:telefone;size:20;not null" json:"telefone"`
	Endereco         string    `gorm:"column:endereco;type:text;not null" json:"endereco"`
	Email            string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	Senha            string    `gorm:"column:senha;size:255;not null" json:"-"` // bcrypt digest, never serialized
	DataCadastro     time.Time `gorm:"column:data_cadastro;default:CURRENT_TIMESTAMP" json:"dataCadastro"`
	EspecializacaoID uint      `gorm:"column:especializacao_id;not null" json:"especializacao_id"`
	DocumentoID      uint      `gorm:"column:documento_id;not null" json:"documento_id"`
}

func (Usuario) TableName() string { return "usuarios" }

// Public returns a copy of the user without the password digest.
func (u Usuario) Public() Usuario {
	u.Senha = ""
	return u
}

type Especializacao struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Tipo string `gorm:"column:tipo;size:20;not null" json:"tipo"`
}

func (Especializacao) TableName() string { return "especializacoes" }
