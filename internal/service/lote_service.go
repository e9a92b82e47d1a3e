package service

import (
	"context"
	"errors"
	"time"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/apierror"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/dto"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/model"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoteService owns the open → close lifecycle of a cash session and its
// append-only posting ledger. One open lote per (usuario, caja): the service
// checks before inserting, and the partial unique index uq_lotes_abiertos
// makes the check-then-insert atomic under concurrency.
type LoteService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirLoteRequest) (*dto.LoteResponse, error)
	Cerrar(ctx context.Context, loteID uuid.UUID, req dto.CerrarLoteRequest) (*dto.CerrarLoteResponse, error)
	RegistrarDetalle(ctx context.Context, loteID uuid.UUID, req dto.DetalleLoteRequest) (*dto.DetalleLoteResponse, error)
	Resumen(ctx context.Context, loteID uuid.UUID) (*dto.ResumenLoteResponse, error)
	GetActivo(ctx context.Context, usuarioID uuid.UUID) (*dto.ResumenLoteResponse, error)
	Historial(ctx context.Context, page, limit int) ([]dto.LoteResponse, int64, error)
}

type loteService struct {
	repo       repository.LoteRepository
	cajaRepo   repository.CajaRepository
	cuentaRepo repository.CuentaTesoreriaRepository
	locks      *LoteLocks
}

func NewLoteService(
	repo repository.LoteRepository,
	cajaRepo repository.CajaRepository,
	cuentaRepo repository.CuentaTesoreriaRepository,
	locks *LoteLocks,
) LoteService {
	return &loteService{repo: repo, cajaRepo: cajaRepo, cuentaRepo: cuentaRepo, locks: locks}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *loteService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirLoteRequest) (*dto.LoteResponse, error) {
	cajaID, err := uuid.Parse(req.CajaID)
	if err != nil {
		return nil, apierror.Validation("caja_invalida", "caja_id inválido")
	}
	caja, err := s.cajaRepo.FindByID(ctx, cajaID)
	if err != nil {
		return nil, apierror.NotFound("caja_inexistente", "la caja no existe")
	}
	if !caja.Activo {
		return nil, apierror.Policy("caja_inactiva", "la caja está inactiva")
	}
	if req.MontoApertura != nil && req.MontoApertura.IsNegative() {
		return nil, apierror.Validation("monto_invalido", "el monto de apertura no puede ser negativo")
	}

	if existing, err := s.repo.FindLoteAbierto(ctx, usuarioID, cajaID); err == nil && existing != nil {
		return nil, apierror.Conflict("lote_ya_abierto", "ya existe un lote abierto para este usuario y caja")
	}

	// Seed the opening balance from the caja's last closing when omitted, so
	// consecutive custody periods chain without manual re-counting.
	monto := decimal.Zero
	if req.MontoApertura != nil {
		monto = *req.MontoApertura
	} else if ultimo, err := s.repo.UltimoLoteCerrado(ctx, cajaID); err == nil && ultimo != nil && ultimo.MontoCierre != nil {
		monto = *ultimo.MontoCierre
	}

	lote := &model.LoteOperaciones{
		UsuarioID:     usuarioID,
		CajaID:        cajaID,
		MontoApertura: monto,
		Estado:        model.LoteAbierto,
		Observaciones: req.Observaciones,
		OpenedAt:      time.Now(),
	}
	if err := s.repo.CreateLote(ctx, lote); err != nil {
		// Losing the race against a concurrent open lands here: the partial
		// unique index rejects the second insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("lote_ya_abierto", "ya existe un lote abierto para este usuario y caja")
		}
		return nil, err
	}

	log.Info().
		Str("lote", lote.ID.String()).
		Str("usuario", usuarioID.String()).
		Str("caja", caja.Nombre).
		Str("monto_apertura", monto.String()).
		Msg("lote abierto")

	resp := loteToResponse(lote)
	return &resp, nil
}

// ── RegistrarDetalle ──────────────────────────────────────────────────────────
// Pure append. Postings are immutable — no Update/Delete exists.

func (s *loteService) RegistrarDetalle(ctx context.Context, loteID uuid.UUID, req dto.DetalleLoteRequest) (*dto.DetalleLoteResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, apierror.Validation("monto_invalido", "el monto debe ser mayor a cero")
	}
	cuentaID, err := uuid.Parse(req.CuentaID)
	if err != nil {
		return nil, apierror.Validation("cuenta_invalida", "cuenta_id inválido")
	}
	if _, err := s.cuentaRepo.FindByID(ctx, cuentaID); err != nil {
		return nil, apierror.NotFound("cuenta_inexistente", "la cuenta de tesorería no existe")
	}

	release, err := s.locks.Acquire(ctx, loteID)
	if err != nil {
		return nil, err
	}
	defer release()

	lote, err := s.repo.FindLoteByID(ctx, loteID)
	if err != nil {
		return nil, apierror.NotFound("lote_inexistente", "el lote no existe")
	}
	if lote.Estado != model.LoteAbierto {
		return nil, apierror.Policy("lote_cerrado", "el lote está cerrado y no admite movimientos")
	}

	det := &model.DetalleLote{
		LoteID:        loteID,
		CuentaID:      cuentaID,
		Tipo:          model.TipoDetalle(req.Tipo),
		Monto:         req.Monto,
		Concepto:      req.Concepto,
		Observaciones: req.Observaciones,
	}
	if err := s.repo.CreateDetalle(ctx, det); err != nil {
		return nil, err
	}

	resp := detalleToResponse(det)
	return &resp, nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Computes the closing figure and freezes the lote. The physical cash
// reconciliation counts ONLY cuentas of tipo "efectivo": bank/other postings
// are reported but excluded on purpose — the drawer holds bills, not
// transferencias. (Observed behavior of the legacy system; confirmed as
// intentional for now.)

func (s *loteService) Cerrar(ctx context.Context, loteID uuid.UUID, req dto.CerrarLoteRequest) (*dto.CerrarLoteResponse, error) {
	release, err := s.locks.Acquire(ctx, loteID)
	if err != nil {
		return nil, err
	}
	defer release()

	var resp *dto.CerrarLoteResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		lote, err := s.repo.FindLoteByIDForUpdate(tx, loteID)
		if err != nil {
			return apierror.NotFound("lote_inexistente", "el lote no existe")
		}
		if lote.Estado != model.LoteAbierto {
			return apierror.NotFound("lote_no_abierto", "el lote ya está cerrado")
		}

		// Totals are taken under the same row lock that freezes the lote, so
		// no posting can land between the sum and the state change.
		totales, err := s.repo.SumPorCuentaTx(tx, loteID)
		if err != nil {
			return err
		}

		totalIngresos := decimal.Zero
		totalEgresos := decimal.Zero
		efectivo := decimal.Zero
		porCuenta := make([]dto.TotalCuentaResponse, 0, len(totales))
		for _, t := range totales {
			totalIngresos = totalIngresos.Add(t.Ingresos)
			totalEgresos = totalEgresos.Add(t.Egresos)
			if t.TipoCuenta == model.CuentaEfectivo {
				efectivo = efectivo.Add(t.Ingresos).Sub(t.Egresos)
			}
			porCuenta = append(porCuenta, dto.TotalCuentaResponse{
				CuentaID: t.CuentaID.String(),
				Cuenta:   t.CuentaNombre,
				Tipo:     string(t.TipoCuenta),
				Ingresos: t.Ingresos,
				Egresos:  t.Egresos,
			})
		}

		montoCierre := lote.MontoApertura.Add(efectivo)
		now := time.Now()
		lote.MontoCierre = &montoCierre
		lote.Estado = model.LoteCerrado
		lote.ClosedAt = &now
		if req.Observaciones != nil {
			lote.Observaciones = req.Observaciones
		}
		if err := s.repo.UpdateLoteTx(tx, lote); err != nil {
			return err
		}

		resp = &dto.CerrarLoteResponse{
			LoteID:        lote.ID.String(),
			MontoApertura: lote.MontoApertura,
			MontoCierre:   montoCierre,
			TotalIngresos: totalIngresos,
			TotalEgresos:  totalEgresos,
			PorCuenta:     porCuenta,
			Estado:        string(model.LoteCerrado),
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("lote", resp.LoteID).
		Str("monto_cierre", resp.MontoCierre.String()).
		Msg("lote cerrado")

	return resp, nil
}

// ── Resumen ───────────────────────────────────────────────────────────────────
// Read-side projection only: every figure is derived from the postings at
// request time. Nothing here is a second source of truth for MontoCierre.

func (s *loteService) Resumen(ctx context.Context, loteID uuid.UUID) (*dto.ResumenLoteResponse, error) {
	lote, err := s.repo.FindLoteByID(ctx, loteID)
	if err != nil {
		return nil, apierror.NotFound("lote_inexistente", "el lote no existe")
	}
	return s.buildResumen(ctx, lote)
}

func (s *loteService) GetActivo(ctx context.Context, usuarioID uuid.UUID) (*dto.ResumenLoteResponse, error) {
	lote, err := s.repo.FindLoteAbiertoPorUsuario(ctx, usuarioID)
	if errors.Is(err, gorm.ErrRecordNotFound) || lote == nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.buildResumen(ctx, lote)
}

func (s *loteService) Historial(ctx context.Context, page, limit int) ([]dto.LoteResponse, int64, error) {
	lotes, total, err := s.repo.ListLotes(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.LoteResponse, len(lotes))
	for i := range lotes {
		resp[i] = loteToResponse(&lotes[i])
	}
	return resp, total, nil
}

func (s *loteService) buildResumen(ctx context.Context, lote *model.LoteOperaciones) (*dto.ResumenLoteResponse, error) {
	totales, err := s.repo.SumPorCuenta(ctx, lote.ID)
	if err != nil {
		return nil, err
	}
	detalles, err := s.repo.ListDetalles(ctx, lote.ID)
	if err != nil {
		return nil, err
	}

	totalIngresos := decimal.Zero
	totalEgresos := decimal.Zero
	efectivo := decimal.Zero
	porCuenta := make([]dto.TotalCuentaResponse, 0, len(totales))
	for _, t := range totales {
		totalIngresos = totalIngresos.Add(t.Ingresos)
		totalEgresos = totalEgresos.Add(t.Egresos)
		if t.TipoCuenta == model.CuentaEfectivo {
			efectivo = efectivo.Add(t.Ingresos).Sub(t.Egresos)
		}
		porCuenta = append(porCuenta, dto.TotalCuentaResponse{
			CuentaID: t.CuentaID.String(),
			Cuenta:   t.CuentaNombre,
			Tipo:     string(t.TipoCuenta),
			Ingresos: t.Ingresos,
			Egresos:  t.Egresos,
		})
	}

	dets := make([]dto.DetalleLoteResponse, len(detalles))
	for i := range detalles {
		dets[i] = detalleToResponse(&detalles[i])
	}

	return &dto.ResumenLoteResponse{
		Lote:          loteToResponse(lote),
		TotalIngresos: totalIngresos,
		TotalEgresos:  totalEgresos,
		SaldoEfectivo: lote.MontoApertura.Add(efectivo),
		PorCuenta:     porCuenta,
		Detalles:      dets,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func loteToResponse(l *model.LoteOperaciones) dto.LoteResponse {
	var closedAt *string
	if l.ClosedAt != nil {
		s := l.ClosedAt.Format(time.RFC3339)
		closedAt = &s
	}
	return dto.LoteResponse{
		ID:            l.ID.String(),
		UsuarioID:     l.UsuarioID.String(),
		CajaID:        l.CajaID.String(),
		MontoApertura: l.MontoApertura,
		MontoCierre:   l.MontoCierre,
		Estado:        string(l.Estado),
		Observaciones: l.Observaciones,
		OpenedAt:      l.OpenedAt.Format(time.RFC3339),
		ClosedAt:      closedAt,
	}
}

func detalleToResponse(d *model.DetalleLote) dto.DetalleLoteResponse {
	return dto.DetalleLoteResponse{
		ID:            d.ID.String(),
		CuentaID:      d.CuentaID.String(),
		Tipo:          string(d.Tipo),
		Monto:         d.Monto,
		Concepto:      d.Concepto,
		Observaciones: d.Observaciones,
		CreatedAt:     d.CreatedAt.Format(time.RFC3339),
	}
}
