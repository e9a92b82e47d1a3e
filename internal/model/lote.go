package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoLote: "abierto" | "cerrado"
type EstadoLote string

const (
	LoteAbierto EstadoLote = "abierto"
	LoteCerrado EstadoLote = "cerrado"
)

// LoteOperaciones is one continuous cash-custody period for an operator on a
// physical (or virtual) drawer, from open to close.
//
// At most one open lote may exist per (UsuarioID, CajaID) — enforced by the
// partial unique index uq_lotes_abiertos (see infra/database.go) so two
// concurrent opens cannot both commit.
type LoteOperaciones struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID     uuid.UUID       `gorm:"type:uuid;not null"`
	CajaID        uuid.UUID       `gorm:"type:uuid;not null"`
	MontoApertura decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MontoCierre is computed on close from cash-type accounts only and frozen.
	MontoCierre   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado        EstadoLote       `gorm:"type:varchar(10);not null;default:'abierto'"`
	Observaciones *string
	OpenedAt      time.Time
	ClosedAt      *time.Time

	Detalles []DetalleLote `gorm:"foreignKey:LoteID"`
}

// TableName pins the table explicitly — the partial index uq_lotes_abiertos
// references it by name, so it must never drift with pluralization rules.
func (LoteOperaciones) TableName() string { return "lote_operaciones" }

// TipoDetalle: "ingreso" | "egreso"
type TipoDetalle string

const (
	DetalleIngreso TipoDetalle = "ingreso"
	DetalleEgreso  TipoDetalle = "egreso"
)

// DetalleLote is an immutable posting against a treasury account within a
// lote. Postings are only accepted while the parent lote is open and are
// never modified or deleted; session totals are always derived from them.
type DetalleLote struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LoteID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_detalle_lote_cuenta,priority:1"`
	CuentaID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_detalle_lote_cuenta,priority:2"`
	Tipo          TipoDetalle     `gorm:"type:varchar(10);not null"`
	Monto         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Concepto      string          `gorm:"not null"`
	Observaciones *string
	CreatedAt     time.Time
}
