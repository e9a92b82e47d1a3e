package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoMovimiento distingue cargos de pagos en la cuenta corriente del socio.
type TipoMovimiento string

const (
	MovimientoCargo TipoMovimiento = "cargo"
	MovimientoPago  TipoMovimiento = "pago"
)

// EstadoMovimiento is a closed set — the old UI carried free-form status
// strings ("Pendiente"/"Cobrada"/"Vencida"); here invalid states cannot exist.
type EstadoMovimiento string

const (
	EstadoPendiente EstadoMovimiento = "pendiente"
	EstadoCobrada   EstadoMovimiento = "cobrada"
	EstadoVencida   EstadoMovimiento = "vencida"
)

// Cobrable reports whether a charge in this state still accepts payments.
func (e EstadoMovimiento) Cobrable() bool {
	return e == EstadoPendiente || e == EstadoVencida
}

// MovimientoSocio is one entry in a member's account ledger.
// Monto is signed: positive = cargo, negative = pago.
//
// Two balances coexist and must not be confused:
//   - Saldo: how much of THIS charge remains unpaid (only meaningful for cargos).
//   - SaldoAcumulado: the member's running account balance as of this entry,
//     maintained at write time so reads never rescan the ledger.
//
// Entries are NEVER modified or deleted once their monetary fields are set —
// corrections are new offsetting entries. The only mutable fields are Saldo
// and Estado, touched exclusively by the payment processor and the sweeper.
type MovimientoSocio struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SocioID uuid.UUID       `gorm:"type:uuid;not null;index:idx_movimientos_socio_fecha,priority:1"`
	Fecha   time.Time       `gorm:"not null;index:idx_movimientos_socio_fecha,priority:2"`
	Tipo    TipoMovimiento  `gorm:"type:varchar(10);not null"`
	Concepto string         `gorm:"not null"`
	Monto   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Saldo pendiente de cobro de este cargo. Zero for pagos.
	Saldo          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoAcumulado decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FechaVencimiento *time.Time
	Estado         EstadoMovimiento `gorm:"type:varchar(15);not null;default:'pendiente'"`
	CargoID        *uuid.UUID       `gorm:"type:uuid"`
	// MetodoPago: "efectivo" | "transferencia" | "debito" | "credito" (pagos only)
	MetodoPago *string `gorm:"type:varchar(20)"`
	// CuentaID is the treasury account the payment landed on (pagos only).
	CuentaID *uuid.UUID `gorm:"type:uuid"`
	// Referencia links a pago to its charge entry or external receipt number.
	Referencia *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
