package handler

import (
	"net/http"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/dto"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type CargosHandler struct{ svc service.CargoService }

func NewCargosHandler(svc service.CargoService) *CargosHandler {
	return &CargosHandler{svc: svc}
}

// Generar godoc
// @Summary Genera cargos en lote para socios
// @Description Crea un movimiento de cargo por socio seleccionado (o por todos
// @Description los socios activos si la lista viene vacía). Todo o nada.
// @Tags cargos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.GenerarCargoRequest true "Cargo y socios destino"
// @Success 201 {object} dto.GenerarCargoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/cargos/generar [post]
func (h *CargosHandler) Generar(c *gin.Context) {
	var req dto.GenerarCargoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Generar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista los conceptos de cargo activos
// @Tags cargos
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.CargoResponse
// @Router /v1/cargos [get]
func (h *CargosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarCargos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
