package worker

// vencimiento_cron.go
// Background goroutine that periodically sweeps cargos pendientes past their
// due date to estado='vencida' and enqueues an overdue notice per member.
// The sweep is idempotent, so overlapping with on-demand sweeps is harmless.

import (
	"context"
	"fmt"
	"time"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// VencimientoCronConfig holds all dependencies for the sweep goroutine.
type VencimientoCronConfig struct {
	MovRepo    repository.MovimientoRepository
	SocioRepo  repository.SocioRepository
	Dispatcher *Dispatcher
	Interval   time.Duration
}

// StartVencimientoCron launches a background goroutine that runs the overdue
// sweep on every tick. It respects the context for graceful shutdown.
func StartVencimientoCron(ctx context.Context, cfg VencimientoCronConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("vencimiento_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("vencimiento_cron: shutting down")
				return
			case <-ticker.C:
				runSweep(ctx, cfg)
			}
		}
	}()
}

func runSweep(ctx context.Context, cfg VencimientoCronConfig) {
	ids, err := cfg.MovRepo.AplicarVencimientos(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("vencimiento_cron: sweep failed")
		return
	}
	if len(ids) == 0 {
		return
	}
	log.Info().Int("cantidad", len(ids)).Msg("vencimiento_cron: cargos vencidos")

	if cfg.Dispatcher == nil {
		return
	}

	// One notice per member, no matter how many cargos expired this tick.
	notificados := make(map[uuid.UUID]bool)
	for _, id := range ids {
		mov, err := cfg.MovRepo.FindByID(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("movimiento", id.String()).Msg("vencimiento_cron: lookup failed")
			continue
		}
		if notificados[mov.SocioID] {
			continue
		}
		notificados[mov.SocioID] = true

		socio, err := cfg.SocioRepo.FindByID(ctx, mov.SocioID)
		if err != nil || socio.Email == nil {
			continue
		}
		err = cfg.Dispatcher.EnqueueAviso(ctx, AvisoPayload{
			ToEmail: *socio.Email,
			Subject: "Cuotas vencidas - Cámara de Comercio de Haedo",
			Body: fmt.Sprintf("Estimado/a %s: registra cuotas vencidas en su cuenta. "+
				"Por favor acérquese a regularizar su situación.", socio.Nombre),
		})
		if err != nil {
			log.Error().Err(err).Str("socio", mov.SocioID.String()).Msg("vencimiento_cron: enqueue failed")
		}
	}
}
