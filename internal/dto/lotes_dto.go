package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AbrirLoteRequest opens a cash session. When MontoApertura is omitted the
// service seeds it from the caja's most recent closed lote (0 if none).
type AbrirLoteRequest struct {
	CajaID        string           `json:"caja_id"        validate:"required,uuid"`
	MontoApertura *decimal.Decimal `json:"monto_apertura" validate:"omitempty"`
	Observaciones *string          `json:"observaciones"`
}

type CerrarLoteRequest struct {
	Observaciones *string `json:"observaciones"`
}

type DetalleLoteRequest struct {
	CuentaID      string          `json:"cuenta_id"     validate:"required,uuid"`
	Tipo          string          `json:"tipo"          validate:"required,oneof=ingreso egreso"`
	Monto         decimal.Decimal `json:"monto"         validate:"required"`
	Concepto      string          `json:"concepto"      validate:"required,min=3"`
	Observaciones *string         `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleLoteResponse struct {
	ID            string          `json:"id"`
	CuentaID      string          `json:"cuenta_id"`
	Tipo          string          `json:"tipo"`
	Monto         decimal.Decimal `json:"monto"`
	Concepto      string          `json:"concepto"`
	Observaciones *string         `json:"observaciones"`
	CreatedAt     string          `json:"created_at"`
}

type LoteResponse struct {
	ID            string           `json:"id"`
	UsuarioID     string           `json:"usuario_id"`
	CajaID        string           `json:"caja_id"`
	MontoApertura decimal.Decimal  `json:"monto_apertura"`
	MontoCierre   *decimal.Decimal `json:"monto_cierre"`
	Estado        string           `json:"estado"`
	Observaciones *string          `json:"observaciones"`
	OpenedAt      string           `json:"opened_at"`
	ClosedAt      *string          `json:"closed_at"`
}

// TotalCuentaResponse is the derived ingreso/egreso aggregate for one
// treasury account inside a lote. Never persisted — always recomputed.
type TotalCuentaResponse struct {
	CuentaID string          `json:"cuenta_id"`
	Cuenta   string          `json:"cuenta"`
	Tipo     string          `json:"tipo"`
	Ingresos decimal.Decimal `json:"ingresos"`
	Egresos  decimal.Decimal `json:"egresos"`
}

type CerrarLoteResponse struct {
	LoteID        string          `json:"lote_id"`
	MontoApertura decimal.Decimal `json:"monto_apertura"`
	// MontoCierre reconciles physical cash only: apertura + ingresos de
	// cuentas efectivo − egresos de cuentas efectivo.
	MontoCierre   decimal.Decimal       `json:"monto_cierre"`
	TotalIngresos decimal.Decimal       `json:"total_ingresos"`
	TotalEgresos  decimal.Decimal       `json:"total_egresos"`
	PorCuenta     []TotalCuentaResponse `json:"por_cuenta"`
	Estado        string                `json:"estado"`
}

type ResumenLoteResponse struct {
	Lote          LoteResponse          `json:"lote"`
	TotalIngresos decimal.Decimal       `json:"total_ingresos"`
	TotalEgresos  decimal.Decimal       `json:"total_egresos"`
	// SaldoEfectivo is the running physical-cash figure: apertura + cash
	// ingresos − cash egresos. Matches MontoCierre once the lote closes.
	SaldoEfectivo decimal.Decimal       `json:"saldo_efectivo"`
	PorCuenta     []TotalCuentaResponse `json:"por_cuenta"`
	Detalles      []DetalleLoteResponse `json:"detalles"`
}
