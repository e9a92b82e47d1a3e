package handler

import (
	"net/http"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/dto"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/repository"

	"github.com/gin-gonic/gin"
)

// TesoreriaHandler serves the treasury catalogs (cajas and cuentas). Plain
// read-only listings, so it sits directly on the repositories.
type TesoreriaHandler struct {
	cajaRepo   repository.CajaRepository
	cuentaRepo repository.CuentaTesoreriaRepository
}

func NewTesoreriaHandler(cajaRepo repository.CajaRepository, cuentaRepo repository.CuentaTesoreriaRepository) *TesoreriaHandler {
	return &TesoreriaHandler{cajaRepo: cajaRepo, cuentaRepo: cuentaRepo}
}

// ListarCajas godoc
// @Summary Lista las cajas activas
// @Tags tesoreria
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.CajaResponse
// @Router /v1/tesoreria/cajas [get]
func (h *TesoreriaHandler) ListarCajas(c *gin.Context) {
	cajas, err := h.cajaRepo.ListActivas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.CajaResponse, len(cajas))
	for i, caja := range cajas {
		resp[i] = dto.CajaResponse{
			ID:          caja.ID.String(),
			Nombre:      caja.Nombre,
			Descripcion: caja.Descripcion,
			Activo:      caja.Activo,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ListarCuentas godoc
// @Summary Lista las cuentas de tesorería activas
// @Tags tesoreria
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.CuentaTesoreriaResponse
// @Router /v1/tesoreria/cuentas [get]
func (h *TesoreriaHandler) ListarCuentas(c *gin.Context) {
	cuentas, err := h.cuentaRepo.ListActivas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.CuentaTesoreriaResponse, len(cuentas))
	for i, cta := range cuentas {
		resp[i] = dto.CuentaTesoreriaResponse{
			ID:     cta.ID.String(),
			Nombre: cta.Nombre,
			Tipo:   string(cta.Tipo),
			Activo: cta.Activo,
		}
	}
	c.JSON(http.StatusOK, resp)
}
