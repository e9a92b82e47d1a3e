package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegistrarPagoRequest applies a payment against one charge entry.
// CajaID supplies the cash-session context: required when MetodoPago is
// "efectivo" so the payment is also posted into the operator's open lote.
type RegistrarPagoRequest struct {
	MovimientoID string          `json:"movimiento_id" validate:"required,uuid"`
	Monto        decimal.Decimal `json:"monto"         validate:"required"`
	MetodoPago   string          `json:"metodo_pago"   validate:"required,oneof=efectivo transferencia debito credito"`
	CuentaID     string          `json:"cuenta_id"     validate:"required,uuid"`
	Referencia   *string         `json:"referencia"`
	CajaID       *string         `json:"caja_id"       validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoResponse struct {
	ID               string          `json:"id"`
	SocioID          string          `json:"socio_id"`
	Fecha            string          `json:"fecha"`
	Tipo             string          `json:"tipo"`
	Concepto         string          `json:"concepto"`
	Monto            decimal.Decimal `json:"monto"`
	Saldo            decimal.Decimal `json:"saldo"`
	SaldoAcumulado   decimal.Decimal `json:"saldo_acumulado"`
	FechaVencimiento *string         `json:"fecha_vencimiento"`
	Estado           string          `json:"estado"`
	CargoID          *string         `json:"cargo_id"`
	MetodoPago       *string         `json:"metodo_pago"`
	CuentaID         *string         `json:"cuenta_id"`
	Referencia       *string         `json:"referencia"`
}

type PagoResponse struct {
	Movimiento MovimientoResponse `json:"movimiento"`
	Pago       MovimientoResponse `json:"pago"`
}
