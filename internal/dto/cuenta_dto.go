package dto

import "github.com/shopspring/decimal"

// EstadoCuentaResponse is a member's account statement: the full movement
// list plus the current balance (the last entry's saldo acumulado).
type EstadoCuentaResponse struct {
	SocioID     string               `json:"socio_id"`
	Socio       string               `json:"socio"`
	Saldo       decimal.Decimal      `json:"saldo"`
	Movimientos []MovimientoResponse `json:"movimientos"`
}

type AplicarVencimientosResponse struct {
	CantidadActualizada int `json:"cantidad_actualizada"`
}

type SocioResponse struct {
	ID     string  `json:"id"`
	Nombre string  `json:"nombre"`
	Email  *string `json:"email"`
	Activo bool    `json:"activo"`
}

type CajaResponse struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	Activo      bool    `json:"activo"`
}

type CuentaTesoreriaResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Tipo   string `json:"tipo"`
	Activo bool   `json:"activo"`
}
