package handler

import (
	"net/http"
	"time"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/apierror"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type VencimientosHandler struct{ svc service.VencimientoService }

func NewVencimientosHandler(svc service.VencimientoService) *VencimientosHandler {
	return &VencimientosHandler{svc: svc}
}

// Aplicar godoc
// @Summary Aplica vencimientos sobre cargos pendientes
// @Description Pasa a "vencida" toda cuota pendiente cuya fecha de vencimiento
// @Description ya ocurrió. Idempotente: re-ejecutar no cambia nada.
// @Tags vencimientos
// @Produce json
// @Security BearerAuth
// @Param as_of query string false "Fecha de corte (YYYY-MM-DD, default hoy)"
// @Success 200 {object} dto.AplicarVencimientosResponse
// @Router /v1/vencimientos/aplicar [post]
func (h *VencimientosHandler) Aplicar(c *gin.Context) {
	asOf := time.Now()
	if q := c.Query("as_of"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("as_of inválido, formato esperado YYYY-MM-DD"))
			return
		}
		// End of day: a cuota due ON as_of is not yet overdue.
		asOf = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	resp, err := h.svc.Aplicar(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
