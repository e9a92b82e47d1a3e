package handler

import (
	"net/http"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/apierror"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SociosHandler struct{ svc service.CuentaService }

func NewSociosHandler(svc service.CuentaService) *SociosHandler {
	return &SociosHandler{svc: svc}
}

// Listar godoc
// @Summary Lista los socios activos
// @Tags socios
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SocioResponse
// @Router /v1/socios [get]
func (h *SociosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarSocios(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EstadoDeCuenta godoc
// @Summary Estado de cuenta de un socio
// @Description Devuelve la cuenta corriente completa del socio con el saldo
// @Description actual. Los vencimientos se aplican antes de leer, de modo que
// @Description los estados mostrados nunca están desactualizados.
// @Tags socios
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de socio"
// @Success 200 {object} dto.EstadoCuentaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/socios/{id}/cuenta [get]
func (h *SociosHandler) EstadoDeCuenta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.EstadoDeCuenta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
