package service

import (
	"context"
	"time"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/dto"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/repository"

	"github.com/rs/zerolog/log"
)

// VencimientoService transitions cargos pendientes past their due date to
// "vencida". The pass is a pure function of current state and asOf, and
// idempotent: cargos already vencidos or cobrados are untouched, so it is
// safe to re-run at-least-once — before status-displaying reads, on demand,
// and from the background cron.
type VencimientoService interface {
	Aplicar(ctx context.Context, asOf time.Time) (*dto.AplicarVencimientosResponse, error)
}

type vencimientoService struct {
	movRepo repository.MovimientoRepository
}

func NewVencimientoService(movRepo repository.MovimientoRepository) VencimientoService {
	return &vencimientoService{movRepo: movRepo}
}

func (s *vencimientoService) Aplicar(ctx context.Context, asOf time.Time) (*dto.AplicarVencimientosResponse, error) {
	ids, err := s.movRepo.AplicarVencimientos(ctx, asOf)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		log.Info().Int("cantidad", len(ids)).Time("as_of", asOf).Msg("cargos vencidos aplicados")
	}
	return &dto.AplicarVencimientosResponse{CantidadActualizada: len(ids)}, nil
}
