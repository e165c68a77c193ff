package models

import "time"

// Acompanhamento links a mother to the professional following her case.
type Acompanhamento struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	MaeID          uint       `gorm:"column:mae_id;not null" json:"mae_id"`
	ProfissionalID uint       `gorm:"column:profissional_id;not null" json:"profissional_id"`
	Inicio         time.Time  `gorm:"column:inicio;not null" json:"inicio"`
	Fim            *time.Time `gorm:"column:fim" json:"fim"`
	EmAndamento    bool       `gorm:"column:em_andamento;default:true" json:"emAndamento"`
}

func (Acompanhamento) TableName() string { return "acompanhamentos" }
