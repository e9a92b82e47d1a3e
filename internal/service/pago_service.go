package service

import (
	"context"
	"fmt"
	"time"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/apierror"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/dto"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/model"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/repository"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PagoService interface {
	// Registrar applies a payment (full or partial) against one charge entry.
	// The outstanding decrement, the payment entry append and the optional
	// cash posting commit as ONE atomic unit — a caller abandoning the
	// request can never observe a half-applied payment.
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error)
}

type pagoService struct {
	movRepo    repository.MovimientoRepository
	socioRepo  repository.SocioRepository
	cuentaRepo repository.CuentaTesoreriaRepository
	loteRepo   repository.LoteRepository
	locks      *SocioLocks
	loteLocks  *LoteLocks
	dispatcher *worker.Dispatcher
}

func NewPagoService(
	movRepo repository.MovimientoRepository,
	socioRepo repository.SocioRepository,
	cuentaRepo repository.CuentaTesoreriaRepository,
	loteRepo repository.LoteRepository,
	locks *SocioLocks,
	loteLocks *LoteLocks,
	dispatcher *worker.Dispatcher,
) PagoService {
	return &pagoService{
		movRepo:    movRepo,
		socioRepo:  socioRepo,
		cuentaRepo: cuentaRepo,
		loteRepo:   loteRepo,
		locks:      locks,
		loteLocks:  loteLocks,
		dispatcher: dispatcher,
	}
}

// ── Registrar ─────────────────────────────────────────────────────────────────

func (s *pagoService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error) {
	movID, err := uuid.Parse(req.MovimientoID)
	if err != nil {
		return nil, apierror.Validation("movimiento_invalido", "movimiento_id inválido")
	}
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

	enCaja := req.MetodoPago == "efectivo" && req.CajaID != nil
	var cajaID uuid.UUID
	if enCaja {
		cajaID, err = uuid.Parse(*req.CajaID)
		if err != nil {
			return nil, apierror.Validation("caja_invalida", "caja_id inválido")
		}
	}

	// Resolve the member before locking; the entry is re-read FOR UPDATE
	// inside the transaction, so this read is only used to pick the lock.
	prev, err := s.movRepo.FindByID(ctx, movID)
	if err != nil {
		return nil, apierror.NotFound("movimiento_inexistente", "el movimiento no existe")
	}
	socioID := prev.SocioID

	release, err := s.locks.Acquire(ctx, socioID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Cash collected inside a drawer session must land in the lote. The
	// session lock is taken AFTER the socio lock (fixed socio → lote order,
	// so a payment and a batch generation can never deadlock) and the lote is
	// re-read under the row lock inside the transaction: a Cerrar that slips
	// in between this read and the commit must reject the posting.
	var loteID uuid.UUID
	if enCaja {
		lote, err := s.loteRepo.FindLoteAbierto(ctx, usuarioID, cajaID)
		if err != nil {
			return nil, apierror.Policy("sin_lote_abierto", "no hay lote de operaciones abierto para esta caja")
		}
		loteID = lote.ID

		releaseLote, err := s.loteLocks.Acquire(ctx, loteID)
		if err != nil {
			return nil, err
		}
		defer releaseLote()
	}

	var cargo model.MovimientoSocio
	var pago model.MovimientoSocio

	txErr := runTx(ctx, s.movRepo.DB(), func(tx *gorm.DB) error {
		if enCaja {
			lote, err := s.loteRepo.FindLoteByIDForUpdate(tx, loteID)
			if err != nil {
				return apierror.Policy("sin_lote_abierto", "no hay lote de operaciones abierto para esta caja")
			}
			if lote.Estado != model.LoteAbierto {
				return apierror.Policy("lote_cerrado", "el lote se cerró antes de registrar el cobro")
			}
		}

		mov, err := s.movRepo.FindByIDForUpdate(tx, movID)
		if err != nil {
			return apierror.NotFound("movimiento_inexistente", "el movimiento no existe")
		}
		if mov.Tipo != model.MovimientoCargo {
			return apierror.Validation("movimiento_no_cobrable", "solo los cargos admiten pagos")
		}
		if mov.Estado == model.EstadoCobrada {
			return apierror.Conflict("movimiento_cobrado", "el cargo ya está cobrado")
		}
		if !mov.Estado.Cobrable() {
			return apierror.Policy("estado_invalido", "el cargo no admite pagos en su estado actual")
		}
		if req.Monto.GreaterThan(mov.Saldo) {
			return apierror.Policy("pago_excedido",
				fmt.Sprintf("el pago (%s) excede el saldo pendiente (%s)", req.Monto, mov.Saldo))
		}

		// Decrement this charge's outstanding; settle when it reaches zero.
		mov.Saldo = mov.Saldo.Sub(req.Monto)
		if mov.Saldo.IsZero() {
			mov.Estado = model.EstadoCobrada
		}
		if err := s.movRepo.UpdateTx(tx, mov); err != nil {
			return err
		}

		// Append the payment entry, extending the member's balance chain.
		saldoAnterior, err := s.movRepo.UltimoSaldoAcumulado(tx, socioID)
		if err != nil {
			return err
		}
		referencia := req.Referencia
		if referencia == nil {
			ref := mov.ID.String()
			referencia = &ref
		}
		metodo := req.MetodoPago
		pago = model.MovimientoSocio{
			SocioID:        socioID,
			Fecha:          time.Now(),
			Tipo:           model.MovimientoPago,
			Concepto:       "Pago " + mov.Concepto,
			Monto:          req.Monto.Neg(),
			Saldo:          decimal.Zero, // pagos carry no outstanding
			SaldoAcumulado: saldoAnterior.Sub(req.Monto),
			Estado:         model.EstadoCobrada,
			CargoID:        mov.CargoID,
			MetodoPago:     &metodo,
			CuentaID:       &cuentaID,
			Referencia:     referencia,
		}
		if err := s.movRepo.CreateTx(tx, &pago); err != nil {
			return err
		}

		if enCaja {
			det := &model.DetalleLote{
				LoteID:   loteID,
				CuentaID: cuentaID,
				Tipo:     model.DetalleIngreso,
				Monto:    req.Monto,
				Concepto: "Cobro " + mov.Concepto,
			}
			if err := s.loteRepo.CreateDetalleTx(tx, det); err != nil {
				return err
			}
		}

		cargo = *mov
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Best-effort receipt — a failed enqueue never fails the payment.
	if s.dispatcher != nil {
		if socio, err := s.socioRepo.FindByID(ctx, socioID); err == nil && socio.Email != nil {
			_ = s.dispatcher.EnqueueAviso(ctx, worker.AvisoPayload{
				ToEmail: *socio.Email,
				Subject: "Recibo de pago — Cámara de Comercio de Haedo",
				Body: fmt.Sprintf("Registramos su pago de $%s por %s. Saldo pendiente del cargo: $%s.",
					req.Monto.StringFixed(2), cargo.Concepto, cargo.Saldo.StringFixed(2)),
			})
		}
	}

	log.Info().
		Str("movimiento", cargo.ID.String()).
		Str("socio", socioID.String()).
		Str("monto", req.Monto.String()).
		Str("metodo", req.MetodoPago).
		Msg("pago registrado")

	return &dto.PagoResponse{
		Movimiento: MovimientoToResponse(&cargo),
		Pago:       MovimientoToResponse(&pago),
	}, nil
}

// MovimientoToResponse maps a ledger entry to its API shape.
func MovimientoToResponse(m *model.MovimientoSocio) dto.MovimientoResponse {
	var fv *string
	if m.FechaVencimiento != nil {
		s := m.FechaVencimiento.Format("2006-01-02")
		fv = &s
	}
	var cargoID *string
	if m.CargoID != nil {
		s := m.CargoID.String()
		cargoID = &s
	}
	var cuentaID *string
	if m.CuentaID != nil {
		s := m.CuentaID.String()
		cuentaID = &s
	}
	return dto.MovimientoResponse{
		ID:               m.ID.String(),
		SocioID:          m.SocioID.String(),
		Fecha:            m.Fecha.Format("2006-01-02"),
		Tipo:             string(m.Tipo),
		Concepto:         m.Concepto,
		Monto:            m.Monto,
		Saldo:            m.Saldo,
		SaldoAcumulado:   m.SaldoAcumulado,
		FechaVencimiento: fv,
		Estado:           string(m.Estado),
		CargoID:          cargoID,
		MetodoPago:       m.MetodoPago,
		CuentaID:         cuentaID,
		Referencia:       m.Referencia,
	}
}
