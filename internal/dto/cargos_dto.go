package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SocioCargoRequest selects one member for a generation batch. Monto is the
// per-member override, mandatory when the cargo is variable (variable charges
// have no default amount) and ignored for fijo.
type SocioCargoRequest struct {
	SocioID string           `json:"socio_id" validate:"required,uuid"`
	Monto   *decimal.Decimal `json:"monto"    validate:"omitempty"`
}

type GenerarCargoRequest struct {
	CargoID string `json:"cargo_id" validate:"required,uuid"`
	// Socios may be empty: the generator then targets every active member.
	Socios           []SocioCargoRequest `json:"socios"            validate:"omitempty,dive"`
	FechaEmision     string              `json:"fecha_emision"     validate:"required,datetime=2006-01-02"`
	FechaVencimiento *string             `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type GenerarCargoResponse struct {
	CantidadCreada int             `json:"cantidad_creada"`
	MontoTotal     decimal.Decimal `json:"monto_total"`
	Socios         []string        `json:"socios"`
}

type CargoResponse struct {
	ID           string           `json:"id"`
	Nombre       string           `json:"nombre"`
	Tipo         string           `json:"tipo"`
	Monto        *decimal.Decimal `json:"monto"`
	Periodicidad string           `json:"periodicidad"`
	Activo       bool             `json:"activo"`
}
