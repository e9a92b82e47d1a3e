package handler

import (
	"net/http"
	"strconv"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/apierror"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/dto"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/middleware"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LotesHandler struct{ svc service.LoteService }

func NewLotesHandler(svc service.LoteService) *LotesHandler {
	return &LotesHandler{svc: svc}
}

// Abrir godoc
// @Summary Abre un lote de operaciones
// @Description A lo sumo un lote abierto por usuario y caja. Si se omite el
// @Description monto de apertura se toma el cierre del último lote de la caja.
// @Tags lotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirLoteRequest true "Datos de apertura"
// @Success 201 {object} dto.LoteResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/lotes/abrir [post]
func (h *LotesHandler) Abrir(c *gin.Context) {
	var req dto.AbrirLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuario inválido"))
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary Cierra un lote y congela su monto de cierre
// @Description El monto de cierre concilia solo efectivo: apertura + ingresos
// @Description de cuentas efectivo − egresos de cuentas efectivo.
// @Tags lotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de lote"
// @Param body body dto.CerrarLoteRequest true "Observaciones de cierre"
// @Success 200 {object} dto.CerrarLoteResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/lotes/{id}/cerrar [post]
func (h *LotesHandler) Cerrar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CerrarLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarDetalle godoc
// @Summary Registra un ingreso o egreso manual en el lote
// @Tags lotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de lote"
// @Param body body dto.DetalleLoteRequest true "Detalle"
// @Success 201 {object} dto.DetalleLoteResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/lotes/{id}/detalles [post]
func (h *LotesHandler) RegistrarDetalle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.DetalleLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarDetalle(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Resumen godoc
// @Summary Resumen de un lote con totales por cuenta
// @Tags lotes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de lote"
// @Success 200 {object} dto.ResumenLoteResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/lotes/{id} [get]
func (h *LotesHandler) Resumen(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetActivo returns the currently open lote for the authenticated operator.
func (h *LotesHandler) GetActivo(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuario inválido"))
		return
	}
	resp, err := h.svc.GetActivo(c.Request.Context(), usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("Sin lote abierto"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial returns a paginated list of lotes, newest first.
func (h *LotesHandler) Historial(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	resp, total, err := h.svc.Historial(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": total, "page": page, "limit": limit})
}
