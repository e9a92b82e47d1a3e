package handler

import (
	"net/http"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/apierror"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/dto"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/middleware"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PagosHandler struct{ svc service.PagoService }

func NewPagosHandler(svc service.PagoService) *PagosHandler {
	return &PagosHandler{svc: svc}
}

// Registrar godoc
// @Summary Registra un pago total o parcial sobre un cargo
// @Description El descuento del saldo, el asiento de pago y el detalle de lote
// @Description (pagos en efectivo) se confirman en una única transacción.
// @Tags pagos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarPagoRequest true "Datos del pago"
// @Success 201 {object} dto.PagoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/pagos [post]
func (h *PagosHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuario inválido"))
		return
	}

	resp, err := h.svc.Registrar(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
