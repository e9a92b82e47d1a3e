package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoCargo: "fijo" | "variable"
type TipoCargo string

const (
	CargoFijo     TipoCargo = "fijo"
	CargoVariable TipoCargo = "variable"
)

// Cargo is a charge definition (cuota social, derecho de inscripción, etc.).
// Created and edited by the back-office CRUD; consumed read-only here.
// Monto is required for fijo and absent for variable — variable charges take
// a per-member amount at generation time and have no default.
type Cargo struct {
	ID     uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string           `gorm:"not null"`
	Tipo   TipoCargo        `gorm:"type:varchar(10);not null"`
	Monto  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Periodicidad: "mensual" | "anual" | "unica"
	Periodicidad string `gorm:"type:varchar(15);not null;default:'mensual'"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
