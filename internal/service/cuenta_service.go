package service

import (
	"context"
	"time"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/apierror"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/dto"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/repository"

	"github.com/google/uuid"
)

// CuentaService serves the member account statement. Every read runs the
// vencimiento pass first so displayed statuses are never stale — the pass is
// idempotent, so racing with the cron is harmless.
type CuentaService interface {
	EstadoDeCuenta(ctx context.Context, socioID uuid.UUID) (*dto.EstadoCuentaResponse, error)
	ListarSocios(ctx context.Context) ([]dto.SocioResponse, error)
}

type cuentaService struct {
	socioRepo    repository.SocioRepository
	movRepo      repository.MovimientoRepository
	vencimientos VencimientoService
}

func NewCuentaService(
	socioRepo repository.SocioRepository,
	movRepo repository.MovimientoRepository,
	vencimientos VencimientoService,
) CuentaService {
	return &cuentaService{socioRepo: socioRepo, movRepo: movRepo, vencimientos: vencimientos}
}

func (s *cuentaService) EstadoDeCuenta(ctx context.Context, socioID uuid.UUID) (*dto.EstadoCuentaResponse, error) {
	socio, err := s.socioRepo.FindByID(ctx, socioID)
	if err != nil {
		return nil, apierror.NotFound("socio_inexistente", "el socio no existe")
	}

	if _, err := s.vencimientos.Aplicar(ctx, time.Now()); err != nil {
		return nil, err
	}

	movs, err := s.movRepo.ListBySocio(ctx, socioID)
	if err != nil {
		return nil, err
	}

	resp := &dto.EstadoCuentaResponse{
		SocioID:     socio.ID.String(),
		Socio:       socio.Nombre,
		Movimientos: make([]dto.MovimientoResponse, len(movs)),
	}
	for i := range movs {
		resp.Movimientos[i] = MovimientoToResponse(&movs[i])
	}
	// Current balance = running balance of the latest entry. Maintained at
	// write time, so no rescan of amounts happens here.
	if len(movs) > 0 {
		resp.Saldo = movs[len(movs)-1].SaldoAcumulado
	}
	return resp, nil
}

func (s *cuentaService) ListarSocios(ctx context.Context) ([]dto.SocioResponse, error) {
	socios, err := s.socioRepo.ListActivos(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SocioResponse, len(socios))
	for i, so := range socios {
		resp[i] = dto.SocioResponse{
			ID:     so.ID.String(),
			Nombre: so.Nombre,
			Email:  so.Email,
			Activo: so.Activo,
		}
	}
	return resp, nil
}
