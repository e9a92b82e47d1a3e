package service

import (
	"context"
	"sort"
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

type CargoService interface {
	// Generar creates one pending charge entry per selected member.
	// All-or-nothing: if any member in the batch is invalid, no entry is
	// created — a partially applied batch would corrupt the ledger.
	Generar(ctx context.Context, req dto.GenerarCargoRequest) (*dto.GenerarCargoResponse, error)
	ListarCargos(ctx context.Context) ([]dto.CargoResponse, error)
}

type cargoService struct {
	cargoRepo repository.CargoRepository
	socioRepo repository.SocioRepository
	movRepo   repository.MovimientoRepository
	locks     *SocioLocks
}

func NewCargoService(
	cargoRepo repository.CargoRepository,
	socioRepo repository.SocioRepository,
	movRepo repository.MovimientoRepository,
	locks *SocioLocks,
) CargoService {
	return &cargoService{cargoRepo: cargoRepo, socioRepo: socioRepo, movRepo: movRepo, locks: locks}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Generar ───────────────────────────────────────────────────────────────────

func (s *cargoService) Generar(ctx context.Context, req dto.GenerarCargoRequest) (*dto.GenerarCargoResponse, error) {
	cargoID, err := uuid.Parse(req.CargoID)
	if err != nil {
		return nil, apierror.Validation("cargo_invalido", "cargo_id inválido")
	}

	cargo, err := s.cargoRepo.FindByID(ctx, cargoID)
	if err != nil {
		return nil, apierror.NotFound("cargo_inexistente", "el cargo no existe")
	}
	if !cargo.Activo {
		return nil, apierror.Policy("cargo_inactivo", "el cargo está inactivo y no puede generarse")
	}

	fechaEmision, err := time.Parse("2006-01-02", req.FechaEmision)
	if err != nil {
		return nil, apierror.Validation("fecha_invalida", "fecha_emision inválida")
	}
	var fechaVenc *time.Time
	if req.FechaVencimiento != nil {
		fv, err := time.Parse("2006-01-02", *req.FechaVencimiento)
		if err != nil {
			return nil, apierror.Validation("fecha_invalida", "fecha_vencimiento inválida")
		}
		fechaVenc = &fv
	}

	// Default member selection: every active member when no explicit set.
	socios := req.Socios
	if len(socios) == 0 {
		activos, err := s.socioRepo.ListActivos(ctx)
		if err != nil {
			return nil, err
		}
		for _, so := range activos {
			socios = append(socios, dto.SocioCargoRequest{SocioID: so.ID.String()})
		}
	}
	if len(socios) == 0 {
		return nil, apierror.Validation("sin_socios", "el conjunto de socios está vacío")
	}

	// Pre-flight resolution — validate the WHOLE batch before touching the
	// ledger. Any failure here aborts with zero entries created.
	type resolvedCargo struct {
		socioID uuid.UUID
		monto   decimal.Decimal
	}
	resolved := make([]resolvedCargo, 0, len(socios))
	seen := make(map[uuid.UUID]bool, len(socios))

	for _, sc := range socios {
		socioID, err := uuid.Parse(sc.SocioID)
		if err != nil {
			return nil, apierror.Validation("socio_invalido", "socio_id inválido: "+sc.SocioID)
		}
		if seen[socioID] {
			return nil, apierror.Validation("socio_duplicado", "el socio "+sc.SocioID+" aparece más de una vez en el lote")
		}
		seen[socioID] = true

		if _, err := s.socioRepo.FindByID(ctx, socioID); err != nil {
			return nil, apierror.NotFound("socio_inexistente", "el socio "+sc.SocioID+" no existe")
		}

		var monto decimal.Decimal
		switch cargo.Tipo {
		case model.CargoFijo:
			if cargo.Monto == nil {
				return nil, apierror.Validation("monto_invalido", "el cargo fijo no tiene monto definido")
			}
			monto = *cargo.Monto
		case model.CargoVariable:
			// Variable charges have no default — the override is mandatory.
			if sc.Monto == nil {
				return nil, apierror.Validation("monto_invalido", "el cargo variable requiere monto para el socio "+sc.SocioID)
			}
			monto = *sc.Monto
		}
		if !monto.IsPositive() {
			return nil, apierror.Validation("monto_invalido", "el monto debe ser mayor a cero")
		}
		resolved = append(resolved, resolvedCargo{socioID: socioID, monto: monto})
	}

	// Serialize the balance chains of every affected member. Sorted order so
	// two overlapping batches cannot deadlock against each other.
	ordered := make([]uuid.UUID, 0, len(resolved))
	for _, rc := range resolved {
		ordered = append(ordered, rc.socioID)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].String() < ordered[j].String() })

	releases := make([]func(), 0, len(ordered))
	defer func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}()
	for _, id := range ordered {
		release, err := s.locks.Acquire(ctx, id)
		if err != nil {
			return nil, err
		}
		releases = append(releases, release)
	}

	total := decimal.Zero
	afectados := make([]string, 0, len(resolved))

	txErr := runTx(ctx, s.movRepo.DB(), func(tx *gorm.DB) error {
		for _, rc := range resolved {
			saldoAnterior, err := s.movRepo.UltimoSaldoAcumulado(tx, rc.socioID)
			if err != nil {
				return err
			}
			mov := &model.MovimientoSocio{
				SocioID:          rc.socioID,
				Fecha:            fechaEmision,
				Tipo:             model.MovimientoCargo,
				Concepto:         cargo.Nombre,
				Monto:            rc.monto,
				Saldo:            rc.monto,
				SaldoAcumulado:   saldoAnterior.Add(rc.monto),
				FechaVencimiento: fechaVenc,
				Estado:           model.EstadoPendiente,
				CargoID:          &cargo.ID,
			}
			if err := s.movRepo.CreateTx(tx, mov); err != nil {
				return err
			}
			total = total.Add(rc.monto)
			afectados = append(afectados, rc.socioID.String())
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("cargo", cargo.Nombre).
		Int("socios", len(afectados)).
		Str("monto_total", total.String()).
		Msg("cargos generados")

	return &dto.GenerarCargoResponse{
		CantidadCreada: len(afectados),
		MontoTotal:     total,
		Socios:         afectados,
	}, nil
}

// ── ListarCargos ──────────────────────────────────────────────────────────────

func (s *cargoService) ListarCargos(ctx context.Context) ([]dto.CargoResponse, error) {
	cargos, err := s.cargoRepo.ListActivos(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CargoResponse, len(cargos))
	for i, c := range cargos {
		resp[i] = dto.CargoResponse{
			ID:           c.ID.String(),
			Nombre:       c.Nombre,
			Tipo:         string(c.Tipo),
			Monto:        c.Monto,
			Periodicidad: c.Periodicidad,
			Activo:       c.Activo,
		}
	}
	return resp, nil
}
