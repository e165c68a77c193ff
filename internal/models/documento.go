package models

// Tipos de documento seeded by the migrations.
const (
	TipoDocumentoMae          uint = 1
	TipoDocumentoProfissional uint = 2
)

type Documento struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	TipoDocumentoID uint   `gorm:"column:tipo_documento_id;not null" json:"tipo_documento_id"`
	ValorDocumento  string `gorm:"column:valor_documento;size:50;uniqueIndex;not null" json:"valor_documento"`
}

func (Documento) TableName() string { return "documentos" }

type TipoDocumento struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Descricao string `gorm:"column:descricao;size:50;uniqueIndex;not null" json:"descricao"`
}

func (TipoDocumento) TableName() string { return "tipos_documentos" }
