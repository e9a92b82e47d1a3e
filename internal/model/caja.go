package model

import (
	"time"

	"github.com/google/uuid"
)

// Caja is a physical or virtual cash drawer. Static reference data.
type Caja struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"not null;uniqueIndex"`
	Descripcion *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TipoCuenta: "efectivo" | "banco" | "otro"
type TipoCuenta string

const (
	CuentaEfectivo TipoCuenta = "efectivo"
	CuentaBanco    TipoCuenta = "banco"
	CuentaOtro     TipoCuenta = "otro"
)

// CuentaTesoreria is a treasury account postings are booked against.
// Only accounts of tipo "efectivo" count toward a lote's physical cash
// reconciliation; bank/other postings are tracked but reported separately.
type CuentaTesoreria struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string     `gorm:"not null;uniqueIndex"`
	Tipo      TipoCuenta `gorm:"type:varchar(10);not null"`
	Activo    bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
